package wrapper

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ErrNoGoFiles is returned when a directory holds no non-test Go files.
var ErrNoGoFiles = errors.New("no Go files found")

// Kind classifies a model field.
type Kind int

const (
	// Simple fields are wrapped with a getter and a change-tracking setter.
	Simple Kind = iota
	// Complex fields hold another model of the same package, by value or pointer.
	Complex
	// Collection fields are slices of another model of the same package.
	Collection
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Complex:
		return "complex"
	case Collection:
		return "collection"
	default:
		return "unknown"
	}
}

// Field is an exported field of a model.
type Field struct {
	Name    string
	Type    string // as written in the wrapper package
	Kind    Kind
	Item    string // wrapped model name for complex and collection fields
	Pointer bool   // *T for complex fields, []*T for collections
}

// Model is an exported, non-generic struct type.
type Model struct {
	Name    string
	Fields  []Field
	Imports []string // import specs needed by simple field types
	Skipped []string // exported fields whose type cannot be expressed outside the package
}

// Of returns the model's fields of the given kind in declaration order.
func (m Model) Of(kind Kind) []Field {
	var out []Field
	for _, f := range m.Fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Package is a scanned models directory.
type Package struct {
	Name   string
	Dir    string
	Models []Model
}

// Model returns the named model.
func (p *Package) Model(name string) (Model, bool) {
	for _, m := range p.Models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

type sourceFile struct {
	ast     *ast.File
	imports map[string]string // package name -> import spec
}

type scanner struct {
	pkg     string
	local   map[string]bool // every declared type; value is exported
	structs map[string]bool // exported, non-generic struct types
}

// Scan parses the Go files in dir and classifies the fields of every
// exported struct type. Test files and files starting with '.' or '_' are
// ignored.
func Scan(fs afero.Fs, dir string) (*Package, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	var files []sourceFile
	var pkgName string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") ||
			strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		full := filepath.Join(dir, name)
		src, err := afero.ReadFile(fs, full)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", full, err)
		}
		f, err := parser.ParseFile(fset, full, src, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", full, err)
		}

		switch {
		case pkgName == "":
			pkgName = f.Name.Name
		case f.Name.Name != pkgName:
			return nil, fmt.Errorf("%s: found packages %s and %s", dir, pkgName, f.Name.Name)
		}
		files = append(files, sourceFile{ast: f, imports: importsOf(f)})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoGoFiles)
	}

	s := &scanner{pkg: pkgName, local: make(map[string]bool), structs: make(map[string]bool)}
	for _, f := range files {
		s.declare(f.ast)
	}

	pkg := &Package{Name: pkgName, Dir: dir}
	for _, f := range files {
		pkg.Models = append(pkg.Models, s.models(f)...)
	}
	sort.Slice(pkg.Models, func(i, j int) bool { return pkg.Models[i].Name < pkg.Models[j].Name })
	return pkg, nil
}

func importsOf(f *ast.File) map[string]string {
	out := make(map[string]string)
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := defaultImportName(p)
		quoted := strconv.Quote(p)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			name = spec.Name.Name
			quoted = name + " " + quoted
		}
		out[name] = quoted
	}
	return out
}

// defaultImportName guesses the package name of an import path the way
// goimports does for unaliased imports: the last element, ignoring a major
// version suffix and a ".vN" suffix.
func defaultImportName(p string) string {
	base := path.Base(p)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(p))
	}
	if i := strings.Index(base, ".v"); i > 0 && isDigits(base[i+2:]) {
		base = base[:i]
	}
	return strings.ReplaceAll(base, "-", "")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *scanner) declare(f *ast.File) {
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			s.local[ts.Name.Name] = ts.Name.IsExported()
			if _, isStruct := ts.Type.(*ast.StructType); isStruct && ts.Name.IsExported() && ts.TypeParams == nil {
				s.structs[ts.Name.Name] = true
			}
		}
	}
}

func (s *scanner) models(f sourceFile) []Model {
	var out []Model
	for _, decl := range f.ast.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			st, isStruct := ts.Type.(*ast.StructType)
			if !isStruct || !s.structs[ts.Name.Name] {
				continue
			}
			out = append(out, s.model(ts.Name.Name, st, f.imports))
		}
	}
	return out
}

func (s *scanner) model(name string, st *ast.StructType, imports map[string]string) Model {
	m := Model{Name: name}
	used := make(map[string]bool)

	for _, field := range st.Fields.List {
		for _, ident := range field.Names {
			if !ident.IsExported() {
				continue
			}
			f := s.classify(ident.Name, field.Type)
			if f.Kind == Simple {
				r := renderer{scanner: s, imports: imports, used: used}
				typ, ok := r.render(field.Type)
				if !ok {
					m.Skipped = append(m.Skipped, ident.Name)
					continue
				}
				f.Type = typ
			}
			m.Fields = append(m.Fields, f)
		}
	}

	for spec := range used {
		m.Imports = append(m.Imports, spec)
	}
	sort.Strings(m.Imports)
	return m
}

// classify reports the kind of a field. Simple fields are returned without
// a type; the caller renders it.
func (s *scanner) classify(name string, expr ast.Expr) Field {
	if item, ptr, ok := s.modelRef(expr); ok {
		return Field{Name: name, Type: typeName(s.pkg, item, ptr), Kind: Complex, Item: item, Pointer: ptr}
	}
	if arr, ok := expr.(*ast.ArrayType); ok && arr.Len == nil {
		if item, ptr, ok := s.modelRef(arr.Elt); ok {
			return Field{Name: name, Type: "[]" + typeName(s.pkg, item, ptr), Kind: Collection, Item: item, Pointer: ptr}
		}
	}
	return Field{Name: name, Kind: Simple}
}

// modelRef matches T and *T where T is a model of the package.
func (s *scanner) modelRef(expr ast.Expr) (string, bool, bool) {
	ptr := false
	if star, ok := expr.(*ast.StarExpr); ok {
		expr, ptr = star.X, true
	}
	ident, ok := expr.(*ast.Ident)
	if !ok || !s.structs[ident.Name] {
		return "", false, false
	}
	return ident.Name, ptr, true
}

func typeName(pkg, name string, ptr bool) string {
	if ptr {
		return "*" + pkg + "." + name
	}
	return pkg + "." + name
}

// renderer writes a field type as seen from another package.
type renderer struct {
	*scanner
	imports map[string]string
	used    map[string]bool
}

func (r renderer) render(expr ast.Expr) (string, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		exported, declared := r.local[t.Name]
		switch {
		case !declared:
			return t.Name, true
		case !exported:
			return "", false
		}
		return r.pkg + "." + t.Name, true

	case *ast.StarExpr:
		x, ok := r.render(t.X)
		return "*" + x, ok

	case *ast.ArrayType:
		elt, ok := r.render(t.Elt)
		if !ok {
			return "", false
		}
		if t.Len == nil {
			return "[]" + elt, true
		}
		lit, isLit := t.Len.(*ast.BasicLit)
		if !isLit {
			return "", false
		}
		return "[" + lit.Value + "]" + elt, true

	case *ast.MapType:
		k, ok := r.render(t.Key)
		if !ok {
			return "", false
		}
		v, ok := r.render(t.Value)
		return "map[" + k + "]" + v, ok

	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return "", false
		}
		spec, known := r.imports[x.Name]
		if !known {
			return "", false
		}
		r.used[spec] = true
		return x.Name + "." + t.Sel.Name, true

	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}", true
		}
	}
	return "", false
}
