package textio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrFilePath is matched by every path validation failure.
var ErrFilePath = errors.New("illegal file path")

// PathError describes why a path was rejected.
type PathError struct {
	Op     string
	Path   string
	Reason string
	Err    error // underlying filesystem error, if any
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrFilePath and the underlying error to errors.Is.
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFilePath}
	}
	return []error{ErrFilePath, e.Err}
}

// ValidatePath checks that path names a file and returns it cleaned. With
// mustExist the file and its directory must already exist on fs.
func ValidatePath(fs afero.Fs, op, path string, mustExist bool) (string, error) {
	fail := func(reason string, err error) (string, error) {
		return "", &PathError{Op: op, Path: path, Reason: reason, Err: err}
	}

	if strings.TrimSpace(path) == "" {
		return fail("path is empty", nil)
	}
	if i := strings.IndexFunc(path, invalidPathRune); i >= 0 {
		return fail(fmt.Sprintf("invalid character %q at offset %d", path[i], i), nil)
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return fail("path has no file name", nil)
	}

	clean := filepath.Clean(path)
	if !mustExist {
		return clean, nil
	}

	dir := filepath.Dir(clean)
	if info, err := fs.Stat(dir); err != nil || !info.IsDir() {
		return fail("directory does not exist", err)
	}

	info, err := fs.Stat(clean)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fail("file not found", err)
	case err != nil:
		return fail("cannot stat file", err)
	case info.IsDir():
		return fail("path is a directory", nil)
	}
	return clean, nil
}

func invalidPathRune(r rune) bool {
	return r < 0x20 || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|'
}
