package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/wren/diag"
)

// LineSource supplies the lines of a template file.
//
// SetPath validates and remembers a path; Path and FileName report the last
// accepted one and are empty until a path has been set.
type LineSource interface {
	SetPath(path string) error
	Path() string
	FileName() string
	ReadLines() ([]string, error)
}

// LineSink receives generated text.
type LineSink interface {
	WriteLines(path string, lines []string) error
}

// ErrNoSink is returned by Write when the engine was built without a sink.
var ErrNoSink = errors.New("engine: no line sink configured")

// Engine loads one template and generates text from its segments on demand.
//
// An Engine is a single editing session: it is not safe for concurrent use,
// and independent sessions use independent engines.
type Engine struct {
	source     LineSource
	sink       LineSink
	defaultTab int

	loc     locater
	rep     *reporter
	names   nameGenerator
	indent  *indentProcessor
	tokens  *tokenProcessor
	lines   *lineParser
	headers *headerParser

	segments  map[string][]TextItem
	controls  map[string]*ControlItem
	order     []string
	generated []string

	loaded  bool
	written bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDiagnostics sets the sink that receives every diagnostic.
func WithDiagnostics(sink diag.Sink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.rep.sink = sink
		}
	}
}

// WithTabSize sets the tab size the engine starts with and returns to on
// every reset. Out-of-range values are clamped.
func WithTabSize(n int) Option {
	return func(e *Engine) { e.defaultTab = n }
}

// New creates an unloaded engine reading templates from source and writing
// generated text to sink. sink may be nil when output is consumed through
// GeneratedText only.
func New(source LineSource, sink LineSink, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		sink:       sink,
		defaultTab: DefaultTabSize,
		segments:   make(map[string][]TextItem),
		controls:   make(map[string]*ControlItem),
	}
	e.rep = &reporter{sink: diag.Discard, loc: &e.loc}
	e.names.taken = e.hasSegment

	for _, opt := range opts {
		opt(e)
	}

	e.indent = newIndentProcessor(&e.loc, e.rep)
	e.tokens = newTokenProcessor(&e.loc, e.rep)
	e.lines = &lineParser{indent: e.indent, tokens: e.tokens, rep: e.rep}
	e.headers = &headerParser{indent: e.indent, names: &e.names, loc: &e.loc, rep: e.rep}

	e.indent.setTabSize(e.defaultTab)
	e.defaultTab = e.indent.tabSize
	return e
}

// IsLoaded reports whether a template is loaded.
func (e *Engine) IsLoaded() bool { return e.loaded }

// IsWritten reports whether the generated text was written since the last
// load or generation.
func (e *Engine) IsWritten() bool { return e.written }

// CurrentIndent returns the running indent in spaces.
func (e *Engine) CurrentIndent() int { return e.indent.current }

// TabSize returns the current tab size.
func (e *Engine) TabSize() int { return e.indent.tabSize }

// TemplatePath returns the validated template path, or "" when none is set.
func (e *Engine) TemplatePath() string { return e.source.Path() }

// GeneratedText returns a copy of the generated lines.
func (e *Engine) GeneratedText() []string {
	out := make([]string, len(e.generated))
	copy(out, e.generated)
	return out
}

// SetTabSize changes the tab size until the next reset. Values outside 1..9
// are clamped and logged.
func (e *Engine) SetTabSize(n int) { e.indent.setTabSize(n) }

// Load loads the template at the path already held by the line source.
// Only read failures are returned; every other problem is logged.
func (e *Engine) Load() error {
	switch {
	case e.loaded:
		e.rep.log(diag.Loading, diag.Error, msgAttemptToLoadMoreThanOnce, e.source.FileName())
		return nil
	case e.source.Path() == "":
		e.rep.log(diag.Loading, diag.Error, msgUnableToLoadTemplate)
		return nil
	}

	e.resetAll(false)
	return e.loadLines()
}

// LoadFile sets a new template path and loads it. Path validation errors from
// the line source are returned unchanged so callers can tell them apart with
// errors.Is; reloading the currently loaded path is logged and ignored.
func (e *Engine) LoadFile(path string) error {
	lastName, lastPath := e.source.FileName(), e.source.Path()

	if err := e.source.SetPath(path); err != nil {
		e.loaded = false
		return err
	}

	if e.loaded && e.source.Path() == lastPath {
		e.rep.log(diag.Loading, diag.Error, msgAttemptToLoadMoreThanOnce, lastName)
		return nil
	}

	wasWritten := e.written
	e.resetAll(false)

	if !wasWritten && lastName != "" {
		e.rep.log(diag.Loading, diag.Warning, msgNextLoadBeforeFirstIsWritten, e.source.FileName(), lastName)
	}

	return e.loadLines()
}

func (e *Engine) loadLines() error {
	lines, err := e.source.ReadLines()
	if err != nil {
		e.loaded = false
		return fmt.Errorf("reading template %s: %w", e.source.FileName(), err)
	}

	if isEmptyTemplate(lines) {
		e.rep.log(diag.Loading, diag.Error, msgTemplateFileIsEmpty)
		e.loaded = false
		return nil
	}

	e.rep.log(diag.Loading, diag.Info, msgLoadingTemplateFile, e.source.FileName())
	loader := templateLoader{e: e}
	loader.load(lines)

	e.loaded = true
	e.written = false
	return nil
}

func isEmptyTemplate(lines []string) bool {
	return len(lines) == 0 || (len(lines) == 1 && strings.TrimSpace(lines[0]) == "")
}

// GenerateSegment appends the named segment's lines to the generated text.
//
// tokens, when non-nil, is merged into the token table first. A segment with
// a PAD option generates its pad segment before every generation except the
// first. Unknown segments, empty segments and an unloaded engine are logged
// and leave the generated text untouched.
func (e *Engine) GenerateSegment(name string, tokens map[string]string) {
	e.loc.set(name, 0)

	if !e.canGenerate(name) {
		return
	}
	ci := e.controls[name]

	if tokens != nil {
		e.tokens.loadValues(tokens)
	}

	if ci.shouldGeneratePad() {
		e.generatePad(ci.PadSegment)
	}

	if ci.TabSize > 0 {
		prev := e.indent.tabSize
		e.indent.setTabSize(ci.TabSize)
		defer func() { e.indent.tabSize = prev }()
	}

	for _, item := range e.segments[name] {
		e.loc.Line++
		e.generateLine(ci, item)
	}

	e.written = false
}

// generatePad runs a pad segment in isolation: the caller's indent, tab size
// and location are restored afterwards no matter how the nested call ends.
func (e *Engine) generatePad(pad string) {
	e.indent.save()
	defer e.indent.restore()

	e.GenerateSegment(pad, nil)
}

func (e *Engine) generateLine(ci *ControlItem, item TextItem) {
	var n int
	if ci.IsFirstTime {
		n = e.indent.firstTimeIndent(ci.FirstTimeIndent, item)
		ci.IsFirstTime = false
	} else {
		n = e.indent.indent(item)
	}

	e.generated = append(e.generated, strings.Repeat(" ", n)+e.tokens.replace(item.Text))
}

func (e *Engine) canGenerate(name string) bool {
	if !e.loaded {
		e.rep.log(diag.Generating, diag.Error, msgGenerateBeforeLoad, name)
		return false
	}
	if _, ok := e.controls[name]; !ok {
		e.rep.log(diag.Generating, diag.Error, msgUnknownSegmentName, name)
		return false
	}
	if len(e.segments[name]) == 0 {
		e.rep.log(diag.Generating, diag.Error, msgSegmentHasNoTextLines, name)
		return false
	}
	e.rep.log(diag.Generating, diag.Info, msgProcessingSegment)
	return true
}

func (e *Engine) hasSegment(name string) bool {
	_, ok := e.controls[name]
	return ok
}

// ResetSegment makes the next generation of a segment its first again, so its
// first time indent applies and its pad is skipped.
func (e *Engine) ResetSegment(name string) {
	e.loc.set(name, 0)

	if ci, ok := e.controls[name]; ok && name != "" {
		ci.IsFirstTime = true
		return
	}
	e.rep.log(diag.Generating, diag.Error, msgUnableToResetSegment, name)
}

// ResetGeneratedText clears the generated text and all indent, location and
// first-time state while keeping the loaded template.
func (e *Engine) ResetGeneratedText() { e.resetGeneratedText(true) }

// ResetAll discards the loaded template and every piece of session state.
func (e *Engine) ResetAll() { e.resetAll(true) }

func (e *Engine) resetGeneratedText(report bool) {
	e.generated = e.generated[:0]
	e.loc.reset()
	e.indent.reset()
	e.indent.setTabSize(e.defaultTab)

	for _, ci := range e.controls {
		ci.IsFirstTime = true
	}

	if report {
		e.rep.log(diag.Reset, diag.Info, msgGeneratedTextHasBeenReset, e.source.FileName())
	}
}

func (e *Engine) resetAll(report bool) {
	e.resetGeneratedText(false)
	e.segments = make(map[string][]TextItem)
	e.controls = make(map[string]*ControlItem)
	e.order = e.order[:0]
	e.loaded = false
	e.written = false
	e.names.reset()
	e.tokens.clear()

	if report {
		e.rep.log(diag.Reset, diag.Info, msgTemplateHasBeenReset, e.source.FileName())
	}
}

// Write hands the generated text to the line sink. On success the engine is
// marked written and, when resetGeneratedText is set, the generated text is
// reset. On failure nothing changes and the sink's error is returned.
func (e *Engine) Write(path string, resetGeneratedText bool) error {
	if e.sink == nil {
		return ErrNoSink
	}
	if err := e.sink.WriteLines(path, e.GeneratedText()); err != nil {
		return err
	}

	if resetGeneratedText {
		e.ResetGeneratedText()
	}
	e.written = true
	return nil
}

// SegmentInfo describes one loaded segment.
type SegmentInfo struct {
	Name            string
	Lines           int
	FirstTimeIndent int
	PadSegment      string
	TabSize         int
}

// Segments lists the loaded segments in template order.
func (e *Engine) Segments() []SegmentInfo {
	out := make([]SegmentInfo, 0, len(e.order))
	for _, name := range e.order {
		ci := e.controls[name]
		out = append(out, SegmentInfo{
			Name:            name,
			Lines:           len(e.segments[name]),
			FirstTimeIndent: ci.FirstTimeIndent,
			PadSegment:      ci.PadSegment,
			TabSize:         ci.TabSize,
		})
	}
	return out
}

// Tokens returns the sorted names of every token found in the template.
func (e *Engine) Tokens() []string {
	names := e.tokens.names()
	sort.Strings(names)
	return names
}
