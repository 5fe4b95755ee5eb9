// Package config loads wren settings from wren.yml, WREN_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/wren/engine"
	"github.com/simonhull/firebird-suite/wren/logger"
	"github.com/simonhull/firebird-suite/wren/textio"
)

// Keys.
const (
	KeyTemplate = "template"
	KeyOutput   = "output"
	KeyManifest = "manifest"
	KeyTabSize  = "tab_size"
	KeyConflict = "conflict"
	KeyLogLevel = "log_level"
	KeyVerbose  = "verbose"
)

// Config holds the resolved settings.
type Config struct {
	Template string
	Output   string
	Manifest string
	TabSize  int
	Conflict string
	LogLevel string
	Verbose  bool

	// File is the config file that was read, or "" when none was found.
	File string
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Output:   "generated",
		Manifest: "wren.manifest.yml",
		TabSize:  engine.DefaultTabSize,
		Conflict: textio.ModePrompt,
		LogLevel: "warn",
	}
}

// NewViper returns a viper instance with defaults and environment lookup set up.
func NewViper() *viper.Viper {
	d := Default()

	v := viper.New()
	v.SetConfigName("wren")
	v.SetConfigType("yaml")

	v.SetDefault(KeyTemplate, d.Template)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyManifest, d.Manifest)
	v.SetDefault(KeyTabSize, d.TabSize)
	v.SetDefault(KeyConflict, d.Conflict)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyVerbose, d.Verbose)

	v.SetEnvPrefix("WREN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds the persistent CLI flags that override config keys.
// Flags missing from fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyOutput:   "output",
		KeyConflict: "conflict",
		KeyTabSize:  "tab-size",
		KeyLogLevel: "log-level",
		KeyVerbose:  "verbose",
	}
	for key, flag := range bindings {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// Load reads file, or wren.yml from searchDirs (default "."), and resolves
// every key. A missing wren.yml is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string, searchDirs ...string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		if len(searchDirs) == 0 {
			searchDirs = []string{"."}
		}
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Template: v.GetString(KeyTemplate),
		Output:   v.GetString(KeyOutput),
		Manifest: v.GetString(KeyManifest),
		TabSize:  v.GetInt(KeyTabSize),
		Conflict: strings.ToLower(v.GetString(KeyConflict)),
		LogLevel: strings.ToLower(v.GetString(KeyLogLevel)),
		Verbose:  v.GetBool(KeyVerbose),
		File:     v.ConfigFileUsed(),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	var errs []error

	if c.TabSize < engine.MinTabSize || c.TabSize > engine.MaxTabSize {
		errs = append(errs, fmt.Errorf("%s must be between %d and %d, got %d",
			KeyTabSize, engine.MinTabSize, engine.MaxTabSize, c.TabSize))
	}
	if !slices.Contains(textio.Modes(), c.Conflict) {
		errs = append(errs, fmt.Errorf("%s must be one of %s, got %q",
			KeyConflict, strings.Join(textio.Modes(), ", "), c.Conflict))
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("%s %q is not a log level", KeyLogLevel, c.LogLevel))
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level, raised to debug in verbose mode.
func (c *Config) Level() logger.Level {
	if c.Verbose {
		return logger.LevelDebug
	}
	lvl, _ := logger.ParseLevel(c.LogLevel)
	return lvl
}
