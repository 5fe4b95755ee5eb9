package textio

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t/model.tt", []byte("### A\r\n@=0 a\r\n\r\n"), 0o644))

	src := NewFileSource(fs)
	assert.Empty(t, src.Path())
	assert.Empty(t, src.FileName())

	require.NoError(t, src.SetPath("/t/model.tt"))
	assert.Equal(t, "/t/model.tt", src.Path())
	assert.Equal(t, "model.tt", src.FileName())

	lines, err := src.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"### A", "@=0 a", ""}, lines)
}

func TestFileSource_RejectedPathKeepsPrevious(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t/a.tt", []byte("x"), 0o644))

	src := NewFileSource(fs)
	require.NoError(t, src.SetPath("/t/a.tt"))

	err := src.SetPath("/t/missing.tt")
	assert.ErrorIs(t, err, ErrFilePath)
	assert.Equal(t, "/t/a.tt", src.Path())
}

func TestFileSource_ReadWithoutPath(t *testing.T) {
	_, err := NewFileSource(afero.NewMemMapFs()).ReadLines()
	assert.ErrorIs(t, err, ErrFilePath)
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource(map[string]string{
		"wrapper.tt": "### A\n@=0 a\n",
		"empty.tt":   "",
	})
	assert.Equal(t, []string{"empty.tt", "wrapper.tt"}, src.Names())

	assert.ErrorIs(t, src.SetPath("other.tt"), ErrFilePath)
	assert.ErrorIs(t, src.SetPath(""), ErrFilePath)

	require.NoError(t, src.SetPath("wrapper.tt"))
	assert.Equal(t, "wrapper.tt", src.FileName())
	lines, err := src.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"### A", "@=0 a"}, lines)

	require.NoError(t, src.SetPath("empty.tt"))
	lines, err = src.ReadLines()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSplitJoinLines(t *testing.T) {
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{""}, SplitLines("\n\n")[:1])
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))

	lines := []string{"one", "", "  three"}
	assert.Equal(t, "one\n\n  three\n", string(JoinLines(lines)))
	assert.Equal(t, lines, SplitLines(string(JoinLines(lines))))
}
