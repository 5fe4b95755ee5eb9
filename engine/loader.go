package engine

import "github.com/simonhull/firebird-suite/wren/diag"

// templateLoader makes a single pass over the raw template lines and fills
// the engine's segment and control maps.
type templateLoader struct {
	e         *Engine
	lineCount int // text lines in the open segment
}

func (l *templateLoader) load(lines []string) {
	loc := &l.e.loc
	loc.Line = 0

	for _, line := range lines {
		loc.Line++

		if l.e.lines.isValidPrefix(line) {
			l.parseLine(line)
		} else {
			l.checkMissingHeader()
		}
	}

	l.checkEmptySegment()
}

func (l *templateLoader) parseLine(line string) {
	switch {
	case isCommentLine(line):
		return
	case isSegmentHeader(line):
		l.checkEmptySegment()
		ci := l.e.headers.parse(line)
		l.addSegment(l.e.loc.Segment, ci)
	default:
		l.checkMissingHeader()
		item := l.e.lines.parseTextLine(line)
		l.addTextItem(item)
	}
}

func (l *templateLoader) addSegment(name string, ci *ControlItem) {
	e := l.e
	if _, exists := e.controls[name]; exists {
		e.loc.Segment = e.names.next()
		e.rep.log(diag.Parsing, diag.Error, msgDuplicateSegmentName, name, e.loc.Segment)
	}

	if l.isPadInvalid(name, ci.PadSegment) {
		e.rep.log(diag.Parsing, diag.Error, msgPadSegmentMustBeDefinedEarlier, ci.PadSegment, name)
		ci.PadSegment = ""
	}

	e.controls[e.loc.Segment] = ci
	e.order = append(e.order, e.loc.Segment)
	l.lineCount = 0
	e.rep.log(diag.Parsing, diag.Info, msgSegmentHasBeenAdded)
}

// isPadInvalid rejects a pad that is self-referential or not yet defined.
// Segment names are unique and a pad must already be defined when its user
// is added, so pads always point backwards and cannot form a cycle.
func (l *templateLoader) isPadInvalid(name, pad string) bool {
	if pad == "" {
		return false
	}
	_, defined := l.e.controls[pad]
	return !defined || pad == name
}

func (l *templateLoader) addTextItem(item TextItem) {
	seg := l.e.loc.Segment
	l.e.segments[seg] = append(l.e.segments[seg], item)
	l.lineCount++
}

func (l *templateLoader) checkEmptySegment() {
	if l.e.loc.hasSegment() && l.lineCount == 0 {
		l.e.rep.log(diag.Parsing, diag.Error, msgNoTextLinesAfterHeader, l.e.loc.Segment)
	}
}

// checkMissingHeader opens a default segment when text arrives before any
// header. It fires once, since the default segment stays open afterwards.
func (l *templateLoader) checkMissingHeader() {
	e := l.e
	if e.loc.hasSegment() {
		return
	}
	e.loc.Segment = e.names.next()
	e.controls[e.loc.Segment] = newControlItem()
	e.order = append(e.order, e.loc.Segment)
	l.lineCount = 0
	e.rep.log(diag.Parsing, diag.Error, msgMissingInitialSegmentHeader, e.loc.Segment)
}
