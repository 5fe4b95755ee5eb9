package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/console"
	"github.com/simonhull/firebird-suite/wren/engine"
	"github.com/simonhull/firebird-suite/wren/output"
	"github.com/simonhull/firebird-suite/wren/textio"
	"github.com/simonhull/firebird-suite/wren/wrapper"
)

func newWrapCmd(a *app) *cobra.Command {
	var pkgName, templatePath string
	var clean, dryRun bool

	cmd := &cobra.Command{
		Use:   "wrap <models-dir>",
		Short: "Generate change-tracking wrappers for the structs of a package",
		Long: `Wrap scans a Go package for exported struct types and writes one wrapper file
per struct into the output directory. Wrappers expose getters and
change-tracking setters for simple fields and wrap fields that hold other
structs of the package, directly or in slices.

Example:
  wren wrap internal/models -o internal/wrappers
  wren wrap internal/models -o internal/wrappers --clean
  wren wrap internal/models --template templates/wrapper.tt --package views`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWrap(cmd, wrapOptions{
				models:   args[0],
				pkg:      pkgName,
				template: templatePath,
				clean:    clean,
				dryRun:   dryRun,
			})
		},
	}

	cmd.Flags().StringVar(&pkgName, "package", "", "Package name of the wrappers (default: base name of the output directory)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Wrapper template (default: the built-in template)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Delete the files in the output directory first, after confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")
	return cmd
}

type wrapOptions struct {
	models   string
	pkg      string
	template string
	clean    bool
	dryRun   bool
}

func (a *app) runWrap(cmd *cobra.Command, opts wrapOptions) error {
	dir := a.abs(opts.models)
	pkg, err := wrapper.Scan(a.fs, dir)
	if err != nil {
		return err
	}
	if len(pkg.Models) == 0 {
		return fmt.Errorf("%s: package %s has no exported structs to wrap", opts.models, pkg.Name)
	}

	res := &results{dir: a.dir}
	writerOpts, tx, err := a.newWriterOptions(cmd, opts.dryRun, res)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c := a.newConsole(cmd)
	if c.Project() == nil {
		return errors.New("wrap must run inside a Go module")
	}
	importPath := c.Project().ImportPath(dir)
	if importPath == "" {
		return fmt.Errorf("%s is outside module %s", opts.models, c.Project().ModulePath)
	}
	if !c.SetOutputDirectory(a.cfg.Output) {
		return fmt.Errorf("cannot use output directory %s", a.cfg.Output)
	}
	if opts.clean && !opts.dryRun {
		c.ClearOutputDirectory()
	}

	target, err := a.wrapperTarget(c, opts.template)
	if err != nil {
		return err
	}

	pkgName := opts.pkg
	if pkgName == "" {
		pkgName = filepath.Base(c.OutputDirectory())
	}

	gen := wrapper.New(target, textio.NewFileWriter(a.fs, writerOpts...), wrapper.Options{
		Package:     pkgName,
		ImportPath:  importPath,
		Dir:         c.OutputDirectory(),
		Diagnostics: a.diagnostics(),
	})

	output.Verbose(fmt.Sprintf("wrapping %d models from %s", len(pkg.Models), importPath))
	if _, err := gen.Generate(pkg); err != nil {
		return err
	}

	if !opts.dryRun {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("writing wrappers: %w", err)
		}
	}
	res.print()
	output.Info(res.summary(opts.dryRun))
	return nil
}

// wrapperTarget returns the console with a custom template loaded, or an
// engine holding the built-in one.
func (a *app) wrapperTarget(c *console.Console, template string) (wrapper.Target, error) {
	if template == "" {
		eng, err := wrapper.NewDefaultEngine(engine.WithDiagnostics(a.diagnostics()), engine.WithTabSize(a.cfg.TabSize))
		if err != nil {
			return nil, fmt.Errorf("loading built-in template: %w", err)
		}
		return eng, nil
	}
	if !c.LoadTemplate(a.abs(template)) {
		return nil, fmt.Errorf("template %s could not be loaded", template)
	}
	return c, nil
}
