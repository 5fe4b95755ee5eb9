package textio

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmpl/model.tt", []byte("### A\n"), 0o644))
	require.NoError(t, fs.MkdirAll("/tmpl/sub", 0o755))

	tests := []struct {
		name      string
		path      string
		mustExist bool
		want      string
		reason    string
	}{
		{"existing file", "/tmpl/model.tt", true, "/tmpl/model.tt", ""},
		{"cleaned", "/tmpl/./sub/../model.tt", true, "/tmpl/model.tt", ""},
		{"new file allowed", "/out/new.go", false, "/out/new.go", ""},
		{"empty", "", false, "", "path is empty"},
		{"blank", "   ", true, "", "path is empty"},
		{"no file name", "/tmpl/", false, "", "no file name"},
		{"bad character", "/tmpl/a|b.tt", false, "", "invalid character"},
		{"control character", "/tmpl/a\x00.tt", false, "", "invalid character"},
		{"missing directory", "/nope/model.tt", true, "", "directory does not exist"},
		{"missing file", "/tmpl/other.tt", true, "", "file not found"},
		{"directory", "/tmpl/sub", true, "", "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePath(fs, "open", tt.path, tt.mustExist)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFilePath)
			var pe *PathError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, pe.Reason, tt.reason)
			assert.Equal(t, tt.path, pe.Path)
		})
	}
}

func TestPathError_UnwrapsCause(t *testing.T) {
	err := &PathError{Op: "open", Path: "x", Reason: "file not found", Err: os.ErrNotExist}

	assert.ErrorIs(t, err, ErrFilePath)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, `open "x": file not found: file does not exist`, err.Error())
}
