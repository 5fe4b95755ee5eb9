package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/console"
	"github.com/simonhull/firebird-suite/wren/manifest"
	"github.com/simonhull/firebird-suite/wren/output"
)

func newGenerateCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [manifest]",
		Short: "Generate files from a manifest",
		Long: `Generate runs a YAML manifest: for each listed output file it generates the
named segments with their token values and writes the result.

Files are written together once every output has been generated; when any
output fails nothing is written. Existing files with different content are
handled according to --conflict.

Example:
  wren generate
  wren generate models.manifest.yml --conflict=diff
  wren generate --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Manifest
			if len(args) > 0 {
				path = args[0]
			}
			return a.runGenerate(cmd, path, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without writing")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, path string, dryRun bool) error {
	m, err := manifest.Load(a.fs, a.abs(path))
	if err != nil {
		return err
	}

	res := &results{dir: a.dir}
	writerOpts, tx, err := a.newWriterOptions(cmd, dryRun, res)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c := a.newConsole(cmd, console.WithWriterOptions(writerOpts...))

	// Flags and config fill in what the manifest leaves open; explicit
	// flags override the manifest.
	var opts manifest.Options
	if m.Template == "" {
		opts.Template = a.cfg.Template
	}
	if m.Output == "" || cmd.Flags().Changed("output") {
		opts.Output = a.cfg.Output
	}
	if cmd.Flags().Changed("tab-size") {
		opts.TabSize = a.cfg.TabSize
	}

	output.Verbose(fmt.Sprintf("running manifest %s (%d outputs)", path, len(m.Outputs)))
	if _, err := m.Run(c, opts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if !dryRun {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("writing generated files: %w", err)
		}
	}
	res.print()
	output.Info(res.summary(dryRun))
	return nil
}
