package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/wren"
	"github.com/simonhull/firebird-suite/wren/config"
	"github.com/simonhull/firebird-suite/wren/console"
	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/simonhull/firebird-suite/wren/engine"
	"github.com/simonhull/firebird-suite/wren/input"
	"github.com/simonhull/firebird-suite/wren/logger"
	"github.com/simonhull/firebird-suite/wren/output"
	"github.com/simonhull/firebird-suite/wren/textio"
)

// app holds what every command shares once flags and config are resolved.
type app struct {
	fs      afero.Fs
	dir     string // working directory; resolved from the OS when empty
	in      io.Reader
	cfgFile string

	v   *viper.Viper
	cfg *config.Config
	log logger.Logger
}

// Execute runs the wren command line.
func Execute() error {
	return RootCmd().Execute()
}

// RootCmd creates the root command for the wren CLI on the OS filesystem.
func RootCmd() *cobra.Command {
	return newRootCmd(&app{fs: afero.NewOsFs()})
}

func newRootCmd(a *app) *cobra.Command {
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "wren",
		Short: "Generate code from line-prefix templates",
		Long: `Wren loads templates written in a small line-prefix language, splits them
into named segments and generates text from those segments with indentation
rules and token substitution.

Settings come from wren.yml, WREN_* environment variables and flags, with
flags taking precedence.`,
		Version:       wren.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default wren.yml in the working directory)")
	pf.BoolP("verbose", "v", false, "Show every diagnostic, including informational ones")
	pf.StringP("output", "o", d.Output, "Output directory, relative to the project root")
	pf.String("conflict", d.Conflict, "How to treat existing files: prompt, force, skip or diff")
	pf.Int("tab-size", d.TabSize, "Spaces per indent level")
	pf.String("log-level", d.LogLevel, "Log level: debug, info, warn, error or silent")

	cmd.AddCommand(newCheckCmd(a), newGenerateCmd(a), newWrapCmd(a), newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wren v%s\n", wren.Version)
		},
	}
}

// setup resolves configuration for the command about to run.
func (a *app) setup(cmd *cobra.Command) error {
	if a.dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		a.dir = wd
	}

	a.v = config.NewViper()
	a.v.SetFs(a.fs)
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.abs(a.cfgFile), a.dir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	output.SetVerbose(cfg.Verbose)
	a.log = logger.NewLogger(cfg.Level(), cmd.ErrOrStderr())
	if cfg.File != "" {
		a.log.Debug("using config file", logger.F("file", cfg.File))
	}
	return nil
}

// abs resolves path against the working directory.
func (a *app) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.dir, path)
}

// diagnostics renders engine diagnostics: every entry on the terminal in
// verbose mode, otherwise through the logger at its configured level.
func (a *app) diagnostics() diag.Sink {
	if a.cfg.Verbose {
		return output.Sink()
	}
	return diag.NewLoggerSink(a.log)
}

func (a *app) newConsole(cmd *cobra.Command, opts ...console.Option) *console.Console {
	base := []console.Option{
		console.WithFs(a.fs),
		console.WithStartDir(a.dir),
		console.WithConfirmer(input.New(a.in, cmd.OutOrStdout())),
		console.WithFlusher(a.diagnostics()),
		console.WithEngineOptions(engine.WithTabSize(a.cfg.TabSize)),
	}
	return console.New(append(base, opts...)...)
}

// newWriterOptions configures conflict handling and staging for a command
// that writes files. Writes are staged in the returned transaction.
func (a *app) newWriterOptions(cmd *cobra.Command, dryRun bool, res *results) ([]textio.WriterOption, *textio.Transaction, error) {
	strategy, err := textio.NewStrategy(a.cfg.Conflict, cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	tx := textio.NewTransaction(a.fs)
	return []textio.WriterOption{
		textio.WithStrategy(strategy),
		textio.WithTransaction(tx),
		textio.WithDryRun(dryRun),
		textio.WithNotify(res.record),
	}, tx, nil
}
