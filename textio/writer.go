package textio

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// ErrNoText is returned when there is nothing to write.
var ErrNoText = errors.New("no generated text to write")

// ErrCancelled is returned when a conflict prompt was cancelled.
var ErrCancelled = errors.New("write cancelled")

// Outcome reports what a write did.
type Outcome int

const (
	Created Outcome = iota
	Overwritten
	Unchanged
	Skipped
	Staged
)

func (o Outcome) String() string {
	return [...]string{"created", "overwritten", "unchanged", "skipped", "staged"}[o]
}

// FileWriter writes generated lines to files, one newline-terminated line per
// entry. It satisfies the engine's line sink.
type FileWriter struct {
	fs       afero.Fs
	strategy Strategy
	tx       *Transaction
	dryRun   bool
	mode     os.FileMode
	notify   func(path string, o Outcome)
}

// WriterOption configures a FileWriter.
type WriterOption func(*FileWriter)

// WithStrategy sets how conflicts with existing files are resolved. The
// default overwrites.
func WithStrategy(s Strategy) WriterOption {
	return func(w *FileWriter) { w.strategy = s }
}

// WithTransaction stages writes in tx instead of writing immediately.
func WithTransaction(tx *Transaction) WriterOption {
	return func(w *FileWriter) { w.tx = tx }
}

// WithDryRun reports outcomes without touching the filesystem.
func WithDryRun(dryRun bool) WriterOption {
	return func(w *FileWriter) { w.dryRun = dryRun }
}

// WithNotify registers a callback invoked after each successful write.
func WithNotify(fn func(path string, o Outcome)) WriterOption {
	return func(w *FileWriter) { w.notify = fn }
}

// NewFileWriter creates a writer on fs, or the OS filesystem when fs is nil.
func NewFileWriter(fs afero.Fs, opts ...WriterOption) *FileWriter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	w := &FileWriter{fs: fs, strategy: ForceStrategy{}, mode: 0o644}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteLines writes lines to path, creating its directory. Skipping a
// conflicting file is not an error; cancelling is.
func (w *FileWriter) WriteLines(path string, lines []string) error {
	if len(lines) == 0 {
		return ErrNoText
	}

	clean, err := ValidatePath(w.fs, "write", path, false)
	if err != nil {
		return err
	}

	outcome, err := w.decide(clean, lines)
	if err != nil {
		return err
	}

	if outcome == Created || outcome == Overwritten {
		switch {
		case w.dryRun:
		case w.tx != nil:
			w.tx.AddFile(clean, JoinLines(lines), w.mode)
			outcome = Staged
		default:
			tx := NewTransaction(w.fs)
			tx.AddFile(clean, JoinLines(lines), w.mode)
			if err := tx.Commit(); err != nil {
				return err
			}
		}
	}

	if w.notify != nil {
		w.notify(clean, outcome)
	}
	return nil
}

func (w *FileWriter) decide(path string, lines []string) (Outcome, error) {
	data, err := afero.ReadFile(w.fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Created, nil
	case err != nil:
		return 0, fmt.Errorf("reading existing %s: %w", path, err)
	}

	existing := SplitLines(string(data))
	if equalLines(existing, lines) {
		return Unchanged, nil
	}

	r, err := w.strategy.Resolve(path, existing, lines)
	if err != nil {
		return 0, err
	}
	switch r {
	case Overwrite:
		return Overwritten, nil
	case Skip:
		return Skipped, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrCancelled)
}
