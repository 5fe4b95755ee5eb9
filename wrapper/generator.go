package wrapper

import (
	_ "embed"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/simonhull/firebird-suite/wren/engine"
	"github.com/simonhull/firebird-suite/wren/textio"
)

// TemplateName is the name the embedded template is served under.
const TemplateName = "wrapper.tt"

// DefaultSuffix is appended to the snake-cased model name to form the file name.
const DefaultSuffix = "_wrapper.go"

//go:embed wrapper.tt
var defaultTemplate string

// DefaultTemplate returns the embedded wrapper template.
func DefaultTemplate() string { return defaultTemplate }

// NewDefaultEngine returns an engine with the embedded template loaded.
func NewDefaultEngine(opts ...engine.Option) (*engine.Engine, error) {
	src := textio.NewMemorySource(map[string]string{TemplateName: defaultTemplate})
	eng := engine.New(src, nil, opts...)
	if err := eng.LoadFile(TemplateName); err != nil {
		return nil, err
	}
	return eng, nil
}

// Target generates text from a loaded wrapper template. *engine.Engine and
// *console.Console both satisfy it.
type Target interface {
	GenerateSegment(name string, tokens map[string]string)
	GeneratedText() []string
	ResetGeneratedText()
}

// Options configure a Generator.
type Options struct {
	Package     string    // package name of the generated wrappers
	ImportPath  string    // import path of the models package
	Dir         string    // output directory
	Suffix      string    // file name suffix; DefaultSuffix when empty
	Diagnostics diag.Sink // receives skipped fields and formatting problems
}

// Generator writes one wrapper file per model.
type Generator struct {
	target Target
	sink   engine.LineSink
	opts   Options
}

// reserved names are methods every wrapper defines.
var reserved = map[string]bool{
	"Model":          true,
	"IsChanged":      true,
	"IsFieldChanged": true,
	"AcceptChanges":  true,
}

// New creates a generator that renders with target and writes through sink.
func New(target Target, sink engine.LineSink, opts Options) *Generator {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = diag.Discard
	}
	return &Generator{target: target, sink: sink, opts: opts}
}

func (g *Generator) validate(pkg *Package) error {
	var errs []error
	if !token.IsIdentifier(g.opts.Package) {
		errs = append(errs, fmt.Errorf("wrapper package %q is not a valid identifier", g.opts.Package))
	}
	if g.opts.Package == pkg.Name {
		errs = append(errs, fmt.Errorf("wrapper package must differ from the model package %s", pkg.Name))
	}
	if g.opts.ImportPath == "" {
		errs = append(errs, errors.New("model import path is required"))
	}
	if g.sink == nil {
		errs = append(errs, engine.ErrNoSink)
	}
	return errors.Join(errs...)
}

// Generate renders and writes a wrapper for every model of pkg. It stops at
// the first write failure and returns the paths written so far.
func (g *Generator) Generate(pkg *Package) ([]string, error) {
	if err := g.validate(pkg); err != nil {
		return nil, err
	}

	var written []string
	for _, m := range pkg.Models {
		path := filepath.Join(g.opts.Dir, FileName(m.Name, g.opts.Suffix))
		if err := g.sink.WriteLines(path, g.format(m.Name, g.Render(pkg, m))); err != nil {
			return written, fmt.Errorf("writing wrapper for %s: %w", m.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Render generates the unformatted wrapper source for m and leaves the
// target's generated text empty.
func (g *Generator) Render(pkg *Package, m Model) []string {
	g.target.ResetGeneratedText()

	base := map[string]string{"Package": g.opts.Package, "Model": pkg.Name, "Type": m.Name}
	gen := func(segment string, tokens ...string) {
		values := make(map[string]string, len(base)+len(tokens)/2)
		for k, v := range base {
			values[k] = v
		}
		for i := 0; i+1 < len(tokens); i += 2 {
			values[tokens[i]] = tokens[i+1]
		}
		g.target.GenerateSegment(segment, values)
	}

	for _, name := range m.Skipped {
		g.warn("field %s.%s is skipped: its type cannot be named outside package %s", m.Name, name, pkg.Name)
	}

	gen("Header")
	gen("Import", "Import", pkg.Name+" "+strconv.Quote(g.opts.ImportPath))
	for _, spec := range m.Imports {
		gen("Import", "Import", spec)
	}
	gen("ImportEnd")

	complexFields, collections := g.fields(m, Complex), g.fields(m, Collection)

	gen("TypeStart")
	for _, f := range complexFields {
		gen("Member", "Field", f.Name, "FieldType", "*"+f.Item+"Wrapper")
	}
	for _, f := range collections {
		gen("Member", "Field", f.Name, "FieldType", "[]*"+f.Item+"Wrapper")
	}

	gen("ConstructorStart")
	for _, f := range complexFields {
		segment := "ComplexInit"
		if f.Pointer {
			segment = "ComplexPtrInit"
		}
		gen(segment, "Field", f.Name, "Item", f.Item)
	}
	for _, f := range collections {
		segment := "CollectionInit"
		if f.Pointer {
			segment = "CollectionPtrInit"
		}
		gen(segment, "Field", f.Name, "Item", f.Item)
	}
	gen("ConstructorEnd")

	for _, f := range g.fields(m, Simple) {
		gen("SimpleProperty", "Field", f.Name, "FieldType", f.Type)
	}

	gen("ChangedStart")
	for _, f := range complexFields {
		gen("ComplexChanged", "Field", f.Name)
	}
	for _, f := range collections {
		gen("CollectionChanged", "Field", f.Name)
	}
	gen("AcceptStart")
	for _, f := range complexFields {
		gen("ComplexAccept", "Field", f.Name)
	}
	for _, f := range collections {
		gen("CollectionAccept", "Field", f.Name)
	}
	gen("End")

	lines := g.target.GeneratedText()
	g.target.ResetGeneratedText()
	return lines
}

// fields returns the fields of m of the given kind, leaving out those whose
// names collide with a wrapper method.
func (g *Generator) fields(m Model, kind Kind) []Field {
	var out []Field
	for _, f := range m.Of(kind) {
		if reserved[f.Name] {
			g.warn("field %s.%s is skipped: the name is used by the wrapper", m.Name, f.Name)
			continue
		}
		out = append(out, f)
	}
	return out
}

// format runs gofmt over lines. Source that does not parse is written as
// generated so the problem can be inspected.
func (g *Generator) format(model string, lines []string) []string {
	out, err := format.Source(textio.JoinLines(lines))
	if err != nil {
		g.warn("wrapper for %s is not valid Go and is written unformatted: %v", model, err)
		return lines
	}
	return textio.SplitLines(string(out))
}

func (g *Generator) warn(format string, args ...any) {
	g.opts.Diagnostics.Log(diag.NewEntry(diag.Writing, diag.Warning, "", 0, fmt.Sprintf(format, args...)))
}

// FileName returns the snake-cased model name followed by suffix, so
// FriendEmail becomes friend_email + suffix and HTTPServer http_server + suffix.
func FileName(model, suffix string) string {
	runes := []rune(model)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String() + suffix
}
