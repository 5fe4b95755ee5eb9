package textio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Transaction stages file writes and applies them together. If any write
// fails, files written so far are restored to their previous content or
// removed when they did not exist before.
type Transaction struct {
	fs        afero.Fs
	staged    []stagedFile
	applied   []appliedFile
	committed bool
}

type stagedFile struct {
	path    string
	content []byte
	mode    os.FileMode
}

// appliedFile remembers what a committed write replaced.
type appliedFile struct {
	path    string
	backup  []byte
	existed bool
}

// NewTransaction creates an empty transaction on fs, or the OS filesystem
// when fs is nil.
func NewTransaction(fs afero.Fs) *Transaction {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Transaction{fs: fs}
}

// AddFile stages a write. A later write to the same path replaces the earlier one.
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	for i := range t.staged {
		if t.staged[i].path == path {
			t.staged[i].content = content
			t.staged[i].mode = mode
			return
		}
	}
	t.staged = append(t.staged, stagedFile{path: path, content: content, mode: mode})
}

// Paths returns the staged paths in staging order.
func (t *Transaction) Paths() []string {
	paths := make([]string, len(t.staged))
	for i, s := range t.staged {
		paths[i] = s.path
	}
	return paths
}

// Len returns the number of staged files.
func (t *Transaction) Len() int { return len(t.staged) }

// Commit writes every staged file.
func (t *Transaction) Commit() error {
	if t.committed {
		return errors.New("transaction already committed")
	}

	for _, s := range t.staged {
		if err := t.apply(s); err != nil {
			t.undo()
			return err
		}
	}

	t.committed = true
	return nil
}

func (t *Transaction) apply(s stagedFile) error {
	dir := filepath.Dir(s.path)
	if err := t.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	prev := appliedFile{path: s.path}
	if data, err := afero.ReadFile(t.fs, s.path); err == nil {
		prev.backup, prev.existed = data, true
	}

	if err := afero.WriteFile(t.fs, s.path, s.content, s.mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", s.path, err)
	}
	t.applied = append(t.applied, prev)
	return nil
}

// undo reverts applied writes, newest first. Errors are ignored.
func (t *Transaction) undo() {
	for i := len(t.applied) - 1; i >= 0; i-- {
		a := t.applied[i]
		if a.existed {
			_ = afero.WriteFile(t.fs, a.path, a.backup, 0o644)
		} else {
			_ = t.fs.Remove(a.path)
		}
	}
	t.applied = nil
}

// Rollback reverts a commit that has not completed. It is safe to defer.
func (t *Transaction) Rollback() {
	if !t.committed {
		t.undo()
	}
}
