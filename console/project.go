package console

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
)

// ErrNoProject is returned when no go.mod is found above the start directory.
var ErrNoProject = errors.New("go.mod not found")

// Project is the Go module that relative template and output paths are
// resolved against.
type Project struct {
	Root       string // directory holding go.mod
	ModulePath string // e.g. "github.com/user/repo"
	GoVersion  string
}

// FindProject walks up from start to the first directory containing go.mod.
func FindProject(fs afero.Fs, start string) (*Project, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		modPath := filepath.Join(dir, "go.mod")
		data, err := afero.ReadFile(fs, modPath)
		switch {
		case err == nil:
			return parseProject(dir, modPath, data)
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read go.mod: %w", err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w in %s or any parent directory", ErrNoProject, start)
		}
		dir = parent
	}
}

func parseProject(dir, modPath string, data []byte) (*Project, error) {
	mf, err := modfile.ParseLax(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}

	p := &Project{Root: dir}
	if mf.Module != nil {
		p.ModulePath = mf.Module.Mod.Path
	}
	if mf.Go != nil {
		p.GoVersion = mf.Go.Version
	}
	return p, nil
}

// ImportPath returns the import path of a directory inside the project, or
// "" when dir lies outside it.
func (p *Project) ImportPath(dir string) string {
	rel, err := filepath.Rel(p.Root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	if rel == "." {
		return p.ModulePath
	}
	return p.ModulePath + "/" + filepath.ToSlash(rel)
}
