package textio

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FileSource reads template lines from a filesystem.
type FileSource struct {
	fs   afero.Fs
	path string
}

// NewFileSource creates a source over fs, or the OS filesystem when fs is nil.
func NewFileSource(fs afero.Fs) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSource{fs: fs}
}

// SetPath validates path and remembers it. The file must exist. A rejected
// path leaves the previous one in place.
func (s *FileSource) SetPath(path string) error {
	clean, err := ValidatePath(s.fs, "open", path, true)
	if err != nil {
		return err
	}
	s.path = clean
	return nil
}

// Path returns the validated path, or "" when none was accepted.
func (s *FileSource) Path() string { return s.path }

// FileName returns the base name of Path.
func (s *FileSource) FileName() string { return baseName(s.path) }

// ReadLines reads the file at Path.
func (s *FileSource) ReadLines() ([]string, error) {
	if s.path == "" {
		return nil, &PathError{Op: "read", Reason: "path is empty"}
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return SplitLines(string(data)), nil
}

// MemorySource serves templates held in memory, keyed by name. It is used for
// templates compiled into the binary.
type MemorySource struct {
	files map[string]string
	path  string
}

// NewMemorySource creates a source over a copy of files.
func NewMemorySource(files map[string]string) *MemorySource {
	m := &MemorySource{files: make(map[string]string, len(files))}
	for name, text := range files {
		m.files[name] = text
	}
	return m
}

// SetPath selects a template by name.
func (m *MemorySource) SetPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Op: "open", Path: path, Reason: "path is empty"}
	}
	if _, ok := m.files[path]; !ok {
		return &PathError{Op: "open", Path: path, Reason: "file not found"}
	}
	m.path = path
	return nil
}

// Path returns the selected name.
func (m *MemorySource) Path() string { return m.path }

// FileName returns the base name of the selected template.
func (m *MemorySource) FileName() string { return baseName(m.path) }

// ReadLines returns the lines of the selected template.
func (m *MemorySource) ReadLines() ([]string, error) {
	text, ok := m.files[m.path]
	if !ok {
		return nil, &PathError{Op: "read", Path: m.path, Reason: "file not found"}
	}
	return SplitLines(text), nil
}

// Names lists the available templates in sorted order.
func (m *MemorySource) Names() []string {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SplitLines splits text into lines, dropping carriage returns and the empty
// element produced by a final newline.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines: every line is newline terminated.
func JoinLines(lines []string) []byte {
	n := 0
	for _, l := range lines {
		n += len(l) + 1
	}

	var b strings.Builder
	b.Grow(n)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
