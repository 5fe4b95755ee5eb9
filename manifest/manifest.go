// Package manifest describes a generation run in YAML: which template to
// load, which output files to produce and which segments, with which token
// values, make up each file.
//
//	template: templates/model.tt
//	output: internal/models
//	outputs:
//	  - file: user_wrapper.go
//	    tokens: {Package: models, Type: User}
//	    steps:
//	      - segment: Header
//	      - segment: Property
//	        repeat:
//	          - {Name: ID, FieldType: int}
//	          - {Name: Email, FieldType: string}
//	      - reset: Property
//	      - tab_size: 2
//	      - segment: Footer
package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/wren/engine"
)

// Manifest is a parsed manifest file.
type Manifest struct {
	Template string   `yaml:"template"`
	Output   string   `yaml:"output"`
	TabSize  int      `yaml:"tab_size"`
	Outputs  []Output `yaml:"outputs"`
}

// Output is one generated file.
type Output struct {
	File     string            `yaml:"file"`
	Template string            `yaml:"template"`
	Tokens   map[string]string `yaml:"tokens"`
	Steps    []Step            `yaml:"steps"`

	Line int `yaml:"-"`
}

// Step is one action within an output. Exactly one of Segment, Reset and
// TabSize is set.
type Step struct {
	Segment string              `yaml:"segment"`
	Tokens  map[string]string   `yaml:"tokens"`
	Repeat  []map[string]string `yaml:"repeat"`
	Reset   string              `yaml:"reset"`
	TabSize int                 `yaml:"tab_size"`

	Line int `yaml:"-"`
}

// UnmarshalYAML records the line the output starts on.
func (o *Output) UnmarshalYAML(node *yaml.Node) error {
	type plain Output
	if err := node.Decode((*plain)(o)); err != nil {
		return err
	}
	o.Line = node.Line
	return nil
}

// UnmarshalYAML records the line the step starts on.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = node.Line
	return nil
}

// Load reads and parses the manifest at path.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown top-level keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest structure. Segment names are checked against
// the template only at run time.
func (m *Manifest) Validate() error {
	var errs []error
	addf := func(line int, format string, args ...any) {
		errs = append(errs, fmt.Errorf("line %d: "+format, append([]any{line}, args...)...))
	}

	if len(m.Outputs) == 0 {
		errs = append(errs, errors.New("manifest has no outputs"))
	}
	if m.TabSize != 0 && !validTabSize(m.TabSize) {
		errs = append(errs, fmt.Errorf("tab_size must be between %d and %d", engine.MinTabSize, engine.MaxTabSize))
	}

	seen := make(map[string]int)
	for _, o := range m.Outputs {
		switch {
		case o.File == "":
			addf(o.Line, "output has no file")
		case seen[o.File] != 0:
			addf(o.Line, "file %q is already produced by the output on line %d", o.File, seen[o.File])
		default:
			seen[o.File] = o.Line
		}
		if o.Template == "" && m.Template == "" {
			addf(o.Line, "output %q has no template and the manifest sets none", o.File)
		}
		if len(o.Steps) == 0 {
			addf(o.Line, "output %q has no steps", o.File)
		}

		for _, s := range o.Steps {
			if err := s.validate(); err != nil {
				addf(s.Line, "%v", err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s Step) validate() error {
	actions := 0
	if s.Segment != "" {
		actions++
	}
	if s.Reset != "" {
		actions++
	}
	if s.TabSize != 0 {
		actions++
	}

	switch {
	case actions != 1:
		return errors.New("step must set exactly one of segment, reset or tab_size")
	case s.Segment != "" && !engine.IsValidName(s.Segment):
		return fmt.Errorf("%q is not a valid segment name", s.Segment)
	case s.Reset != "" && !engine.IsValidName(s.Reset):
		return fmt.Errorf("%q is not a valid segment name", s.Reset)
	case s.TabSize != 0 && !validTabSize(s.TabSize):
		return fmt.Errorf("tab_size must be between %d and %d", engine.MinTabSize, engine.MaxTabSize)
	case s.Segment == "" && (s.Tokens != nil || s.Repeat != nil):
		return errors.New("tokens and repeat require a segment")
	}
	return nil
}

func validTabSize(n int) bool {
	return n >= engine.MinTabSize && n <= engine.MaxTabSize
}

// merge returns base overlaid with over; it returns nil when both are empty
// so the engine treats the call as having no tokens.
func merge(base, over map[string]string) map[string]string {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
