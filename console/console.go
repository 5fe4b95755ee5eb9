// Package console is the interactive front-end around the template engine.
//
// A Console resolves relative paths against the enclosing Go module, recovers
// from unusable template paths by logging and resetting, manages an output
// directory and prints the diagnostics produced by each operation.
package console

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/simonhull/firebird-suite/wren/engine"
	"github.com/simonhull/firebird-suite/wren/input"
	"github.com/simonhull/firebird-suite/wren/output"
	"github.com/simonhull/firebird-suite/wren/textio"
)

const (
	msgFoundProjectRoot           = "found project root %s (module %s)"
	msgProjectRootNotFound        = "unable to locate the project root: %v"
	msgUnableToLoadTemplateFile   = "unable to load template file: %v"
	msgUnableToSetOutputDirectory = "unable to set the output directory: %v"
	msgOutputDirectoryNotSet      = "the output directory has not been set"
	msgOutputDirectoryCleared     = "the output directory has been cleared (%d files deleted)"
	msgUnableToClearOutput        = "unable to clear the output directory: %v"
	msgUnableToWriteText          = "unable to write generated text: %v"
	msgClearOutputDirectory       = "Delete all files in %s?"
)

var errNoRoot = errors.New("relative path cannot be resolved without a project root")

// ErrNoOutputDirectory is returned when writing before an output directory is set.
var ErrNoOutputDirectory = errors.New("output directory has not been set")

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(message string, defaultYes bool) bool
}

// Console wraps an Engine with project-relative paths and an output directory.
type Console struct {
	*engine.Engine

	fs        afero.Fs
	project   *Project
	outputDir string

	rec     *diag.Recorder
	rep     diag.Sink
	flush   diag.Sink
	confirm Confirmer
}

type settings struct {
	fs         afero.Fs
	start      string
	confirm    Confirmer
	flush      diag.Sink
	extra      diag.Sink
	writerOpts []textio.WriterOption
	engineOpts []engine.Option
}

// Option configures a Console.
type Option func(*settings)

// WithFs sets the filesystem. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option { return func(s *settings) { s.fs = fs } }

// WithStartDir sets where the search for go.mod begins. The default is the
// working directory.
func WithStartDir(dir string) Option { return func(s *settings) { s.start = dir } }

// WithConfirmer sets who answers the clear-directory question.
func WithConfirmer(c Confirmer) Option { return func(s *settings) { s.confirm = c } }

// WithFlusher sets where Flush sends diagnostics. The default prints them
// with the output package.
func WithFlusher(sink diag.Sink) Option { return func(s *settings) { s.flush = sink } }

// WithDiagnostics adds a sink that sees every diagnostic as it happens.
func WithDiagnostics(sink diag.Sink) Option { return func(s *settings) { s.extra = sink } }

// WithWriterOptions configures the file writer.
func WithWriterOptions(opts ...textio.WriterOption) Option {
	return func(s *settings) { s.writerOpts = append(s.writerOpts, opts...) }
}

// WithEngineOptions passes options to the engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *settings) { s.engineOpts = append(s.engineOpts, opts...) }
}

// New creates a console and locates the project root. A missing root is
// logged; absolute paths still work without one.
func New(opts ...Option) *Console {
	s := settings{flush: output.Sink()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.confirm == nil {
		s.confirm = input.New(nil, nil)
	}
	if s.start == "" {
		s.start, _ = os.Getwd()
	}

	c := &Console{fs: s.fs, rec: diag.NewRecorder(), flush: s.flush, confirm: s.confirm}
	c.rep = diag.Tee(c.rec, s.extra)

	engineOpts := append([]engine.Option{engine.WithDiagnostics(c.rep)}, s.engineOpts...)
	c.Engine = engine.New(textio.NewFileSource(s.fs), textio.NewFileWriter(s.fs, s.writerOpts...), engineOpts...)

	project, err := FindProject(s.fs, s.start)
	if err != nil {
		c.log(diag.Setup, diag.Warning, msgProjectRootNotFound, err)
	} else {
		c.project = project
		c.log(diag.Setup, diag.Info, msgFoundProjectRoot, project.Root, project.ModulePath)
	}
	return c
}

func (c *Console) log(cat diag.Category, sev diag.Severity, format string, args ...any) {
	c.rep.Log(diag.NewEntry(cat, sev, "", 0, fmt.Sprintf(format, args...)))
}

// Project returns the located project, or nil.
func (c *Console) Project() *Project { return c.project }

// Root returns the project root directory, or "".
func (c *Console) Root() string {
	if c.project == nil {
		return ""
	}
	return c.project.Root
}

// OutputDirectory returns the current output directory, or "".
func (c *Console) OutputDirectory() string { return c.outputDir }

// Diagnostics returns the diagnostics recorded since the last Flush.
func (c *Console) Diagnostics() []diag.Entry { return c.rec.Entries() }

// Flush sends recorded diagnostics to the flusher and forgets them.
func (c *Console) Flush() {
	for _, e := range c.rec.Entries() {
		c.flush.Log(e)
	}
	c.rec.Clear()
}

// Rooted resolves path against the project root. Absolute paths are
// returned unchanged.
func (c *Console) Rooted(path string) (string, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return "", &textio.PathError{Op: "resolve", Path: path, Reason: "path is empty"}
	case filepath.IsAbs(path):
		return path, nil
	case c.project == nil:
		return "", fmt.Errorf("%s: %w", path, errNoRoot)
	}
	return filepath.Join(c.project.Root, path), nil
}

// LoadTemplate loads a template relative to the project root. Any path or
// read failure is logged and the engine is fully reset. It reports whether
// a template is loaded afterwards.
func (c *Console) LoadTemplate(path string) bool {
	defer c.Flush()

	full, err := c.Rooted(path)
	if err == nil {
		err = c.Engine.LoadFile(full)
	}
	if err != nil {
		c.log(diag.Loading, diag.Error, msgUnableToLoadTemplateFile, err)
		c.Engine.ResetAll()
	}
	return c.IsLoaded()
}

// SetOutputDirectory sets and creates the output directory. On failure the
// output directory is cleared.
func (c *Console) SetOutputDirectory(dir string) bool {
	defer c.Flush()

	full, err := c.Rooted(dir)
	if err == nil {
		err = c.fs.MkdirAll(full, 0o755)
	}
	if err != nil {
		c.log(diag.Setup, diag.Error, msgUnableToSetOutputDirectory, err)
		c.outputDir = ""
		return false
	}

	c.outputDir = filepath.Clean(full)
	return true
}

// ClearOutputDirectory deletes the files directly inside the output
// directory after confirmation. Subdirectories are kept. It returns the
// number of files deleted.
func (c *Console) ClearOutputDirectory() int {
	if c.outputDir == "" {
		return 0
	}
	defer c.Flush()

	if !c.confirm.Confirm(fmt.Sprintf(msgClearOutputDirectory, c.outputDir), false) {
		return 0
	}

	entries, err := afero.ReadDir(c.fs, c.outputDir)
	if err != nil {
		c.log(diag.Setup, diag.Error, msgUnableToClearOutput, err)
		return 0
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := c.fs.Remove(filepath.Join(c.outputDir, e.Name())); err != nil {
			c.log(diag.Setup, diag.Error, msgUnableToClearOutput, err)
			continue
		}
		n++
	}
	c.log(diag.Setup, diag.Info, msgOutputDirectoryCleared, n)
	return n
}

// WriteGeneratedText writes the generated text to fileName inside the output
// directory. Failures are logged as well as returned.
func (c *Console) WriteGeneratedText(fileName string, resetGeneratedText bool) error {
	defer c.Flush()

	if c.outputDir == "" {
		c.log(diag.Writing, diag.Error, msgOutputDirectoryNotSet)
		return ErrNoOutputDirectory
	}

	path := c.outputDir
	if strings.TrimSpace(fileName) != "" {
		path = filepath.Join(c.outputDir, fileName)
	}

	if err := c.Engine.Write(path, resetGeneratedText); err != nil {
		c.log(diag.Writing, diag.Error, msgUnableToWriteText, err)
		return err
	}
	return nil
}
