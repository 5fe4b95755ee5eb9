package engine

import (
	"strconv"

	"github.com/simonhull/firebird-suite/wren/diag"
)

const (
	MinIndentValue = -9
	MaxIndentValue = 9
	MinTabSize     = 1
	MaxTabSize     = 9
	DefaultTabSize = 4
)

// indentSnapshot is the state isolated around a nested pad generation.
type indentSnapshot struct {
	current int
	tabSize int
	loc     Location
}

// indentProcessor computes leading spaces for generated lines. It is the only
// component holding numeric state across calls: the running indent and the
// tab size.
type indentProcessor struct {
	current int
	tabSize int
	saved   []indentSnapshot
	loc     *locater
	rep     *reporter
}

func newIndentProcessor(loc *locater, rep *reporter) *indentProcessor {
	return &indentProcessor{tabSize: DefaultTabSize, loc: loc, rep: rep}
}

// indent returns the indent for item and persists it unless the item is one-time.
func (p *indentProcessor) indent(item TextItem) int {
	n := item.Indent * p.tabSize
	if item.IsRelative {
		n += p.current
	}

	if n < 0 {
		p.rep.log(diag.Generating, diag.Warning, msgLeftIndentTruncated, p.loc.Segment)
		n = 0
	}

	if !item.IsOneTime {
		p.current = n
	}
	return n
}

// firstTimeIndent applies a segment's FTI option on its first generated line.
// A zero fti falls back to the ordinary rule; otherwise the result is always
// persisted.
func (p *indentProcessor) firstTimeIndent(fti int, item TextItem) int {
	if fti == 0 {
		return p.indent(item)
	}

	n := p.current + fti*p.tabSize
	if n < 0 {
		p.rep.log(diag.Generating, diag.Warning, msgFirstTimeIndentTruncated, p.loc.Segment)
		n = 0
	}
	p.current = n
	return n
}

// setTabSize clamps n into [MinTabSize, MaxTabSize].
func (p *indentProcessor) setTabSize(n int) {
	switch {
	case n < MinTabSize:
		p.rep.log(diag.Setup, diag.Warning, msgTabSizeTooSmall, MinTabSize)
		p.tabSize = MinTabSize
	case n > MaxTabSize:
		p.rep.log(diag.Setup, diag.Warning, msgTabSizeTooLarge, MaxTabSize)
		p.tabSize = MaxTabSize
	default:
		p.tabSize = n
	}
}

// save pushes the current indent, tab size and location.
func (p *indentProcessor) save() {
	p.saved = append(p.saved, indentSnapshot{
		current: p.current,
		tabSize: p.tabSize,
		loc:     p.loc.Location,
	})
}

// restore pops the most recent snapshot. It is a no-op when nothing is saved.
func (p *indentProcessor) restore() {
	if len(p.saved) == 0 {
		return
	}
	s := p.saved[len(p.saved)-1]
	p.saved = p.saved[:len(p.saved)-1]

	p.current = s.current
	p.tabSize = s.tabSize
	p.loc.Location = s.loc
}

func (p *indentProcessor) reset() {
	p.current = 0
	p.saved = p.saved[:0]
}

// parseIndentValue validates an indent code or FTI value.
func (p *indentProcessor) parseIndentValue(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		p.rep.log(diag.Parsing, diag.Error, msgIndentValueMustBeValidNumber, s)
		return 0, false
	}
	if v < MinIndentValue || v > MaxIndentValue {
		p.rep.log(diag.Parsing, diag.Error, msgIndentValueOutOfRange, v)
		return 0, false
	}
	return v, true
}

// parseTabSizeValue validates a TAB option value.
func (p *indentProcessor) parseTabSizeValue(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		p.rep.log(diag.Parsing, diag.Error, msgTabSizeValueMustBeValidNumber, s)
		return 0, false
	}
	if v < MinTabSize || v > MaxTabSize {
		p.rep.log(diag.Parsing, diag.Error, msgTabSizeValueOutOfRange, v)
		return 0, false
	}
	return v, true
}
