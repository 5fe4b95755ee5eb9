package engine

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/wren/diag"
)

// Location identifies the segment and 1-based line being parsed or generated.
// It only ever feeds diagnostics.
type Location struct {
	Segment string
	Line    int
}

// String formats the location as Segment[Line].
func (l Location) String() string {
	return fmt.Sprintf("%s[%d]", l.Segment, l.Line)
}

// locater tracks the current location for one engine.
type locater struct {
	Location
}

func (l *locater) hasSegment() bool {
	return strings.TrimSpace(l.Segment) != ""
}

func (l *locater) set(segment string, line int) {
	l.Segment = segment
	l.Line = line
}

func (l *locater) reset() { l.set("", 0) }

// reporter formats diagnostics and stamps them with the current location.
type reporter struct {
	sink diag.Sink
	loc  *locater
}

func (r *reporter) log(cat diag.Category, sev diag.Severity, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	r.sink.Log(diag.NewEntry(cat, sev, r.loc.Segment, r.loc.Line, msg))
}
