package manifest

import (
	"fmt"
	"path/filepath"
)

// Session is the part of the console API a manifest drives.
type Session interface {
	LoadTemplate(path string) bool
	Rooted(path string) (string, error)
	TemplatePath() string
	IsLoaded() bool
	SetOutputDirectory(dir string) bool
	GenerateSegment(name string, tokens map[string]string)
	ResetSegment(name string)
	ResetGeneratedText()
	SetTabSize(n int)
	WriteGeneratedText(fileName string, resetGeneratedText bool) error
}

// Options override manifest-level settings. Empty fields keep the manifest value.
type Options struct {
	Template string
	Output   string
	TabSize  int
}

// Run generates every output in order and stops at the first one that cannot
// be loaded or written. It returns the files written.
func (m *Manifest) Run(s Session, opts Options) ([]string, error) {
	outputDir := firstNonEmpty(opts.Output, m.Output)
	if outputDir == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	if !s.SetOutputDirectory(outputDir) {
		return nil, fmt.Errorf("cannot use output directory %s", outputDir)
	}

	tabSize := m.TabSize
	if opts.TabSize != 0 {
		tabSize = opts.TabSize
	}

	var written []string
	for _, o := range m.Outputs {
		template := firstNonEmpty(o.Template, opts.Template, m.Template)
		if err := ensureTemplate(s, template); err != nil {
			return written, fmt.Errorf("output %s: %w", o.File, err)
		}

		s.ResetGeneratedText()
		if tabSize != 0 {
			s.SetTabSize(tabSize)
		}
		o.generate(s)

		if err := s.WriteGeneratedText(o.File, true); err != nil {
			return written, fmt.Errorf("output %s: %w", o.File, err)
		}
		written = append(written, filepath.Join(outputDir, o.File))
	}
	return written, nil
}

func (o Output) generate(s Session) {
	for _, step := range o.Steps {
		switch {
		case step.Reset != "":
			s.ResetSegment(step.Reset)
		case step.TabSize != 0:
			s.SetTabSize(step.TabSize)
		case len(step.Repeat) > 0:
			for _, values := range step.Repeat {
				s.GenerateSegment(step.Segment, merge(o.Tokens, merge(step.Tokens, values)))
			}
		default:
			s.GenerateSegment(step.Segment, merge(o.Tokens, step.Tokens))
		}
	}
}

// ensureTemplate loads path unless it is already the loaded template.
func ensureTemplate(s Session, path string) error {
	full, err := s.Rooted(path)
	if err != nil {
		return err
	}
	if s.IsLoaded() && filepath.Clean(full) == s.TemplatePath() {
		return nil
	}
	if !s.LoadTemplate(path) {
		return fmt.Errorf("template %s could not be loaded", path)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
