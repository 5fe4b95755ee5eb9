package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/wren/logger"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "wren.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(NewViper(), "", t.TempDir())
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Output, cfg.Output)
	assert.Equal(t, want.TabSize, cfg.TabSize)
	assert.Equal(t, want.Conflict, cfg.Conflict)
	assert.Equal(t, want.Manifest, cfg.Manifest)
	assert.Empty(t, cfg.File)
}

func TestLoad_FromSearchDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
template: templates/model.tt
output: out
tab_size: 2
conflict: SKIP
log_level: debug
`)

	cfg, err := Load(NewViper(), "", dir)
	require.NoError(t, err)
	assert.Equal(t, "templates/model.tt", cfg.Template)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, 2, cfg.TabSize)
	assert.Equal(t, "skip", cfg.Conflict)
	assert.Equal(t, logger.LevelDebug, cfg.Level())
	assert.Equal(t, path, cfg.File)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: from-file\ntab_size: 2\nconflict: skip\n")
	t.Setenv("WREN_TAB_SIZE", "6")

	v := NewViper()
	fs := pflag.NewFlagSet("wren", pflag.ContinueOnError)
	fs.String("output", "flag-default", "")
	fs.String("conflict", "prompt", "")
	fs.Int("tab-size", 4, "")
	require.NoError(t, fs.Parse([]string{"--output=from-flag"}))
	require.NoError(t, BindFlags(v, fs))

	cfg, err := Load(v, "", dir)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Output, "changed flags win")
	assert.Equal(t, 6, cfg.TabSize, "environment beats the file")
	assert.Equal(t, "skip", cfg.Conflict, "unchanged flags do not override the file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.TabSize = 0
	cfg.Conflict = "merge"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab_size must be between 1 and 9")
	assert.Contains(t, err.Error(), `conflict must be one of prompt, force, skip, diff, got "merge"`)
	assert.Contains(t, err.Error(), `log_level "loud"`)
}

func TestLoad_InvalidValuesAreReported(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tab_size: 12\n")

	cfg, err := Load(NewViper(), "", dir)
	require.Error(t, err)
	assert.Equal(t, 12, cfg.TabSize)
}

func TestLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, logger.LevelWarn, cfg.Level())

	cfg.Verbose = true
	assert.Equal(t, logger.LevelDebug, cfg.Level())
}
