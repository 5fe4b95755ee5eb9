package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/stretchr/testify/require"
)

var errStub = errors.New("stub failure")

// stubSource serves fixed template lines for any accepted path.
type stubSource struct {
	path    string
	files   map[string][]string
	readErr error
}

func newStubSource(files map[string][]string) *stubSource {
	return &stubSource{files: files}
}

func (s *stubSource) SetPath(path string) error {
	if _, ok := s.files[path]; !ok {
		return errStub
	}
	s.path = path
	return nil
}

func (s *stubSource) Path() string { return s.path }

func (s *stubSource) FileName() string {
	if s.path == "" {
		return ""
	}
	return filepath.Base(s.path)
}

func (s *stubSource) ReadLines() ([]string, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	lines := s.files[s.path]
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

type stubSink struct {
	path  string
	lines []string
	err   error
	calls int
}

func (s *stubSink) WriteLines(path string, lines []string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.path = path
	s.lines = lines
	return nil
}

const testTemplate = "/templates/test.tt"

// loadEngine builds an engine over lines and loads it.
func loadEngine(t *testing.T, lines ...string) (*Engine, *diag.Recorder) {
	t.Helper()

	rec := diag.NewRecorder()
	src := newStubSource(map[string][]string{testTemplate: lines})
	e := New(src, &stubSink{}, WithDiagnostics(rec))
	require.NoError(t, e.LoadFile(testTemplate))
	return e, rec
}

// newParts wires a locater, reporter and recorder for component tests.
func newParts() (*locater, *reporter, *diag.Recorder) {
	rec := diag.NewRecorder()
	loc := &locater{}
	return loc, &reporter{sink: rec, loc: loc}, rec
}
