package diag

import "fmt"

// Category classifies the phase that produced an entry.
type Category int

const (
	Setup Category = iota
	Loading
	Parsing
	Generating
	Writing
	Reset
)

// String returns the category name
func (c Category) String() string {
	switch c {
	case Setup:
		return "Setup"
	case Loading:
		return "Loading"
	case Parsing:
		return "Parsing"
	case Generating:
		return "Generating"
	case Writing:
		return "Writing"
	case Reset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// IsLocated reports whether entries of this category carry a segment and line.
func (c Category) IsLocated() bool {
	return c == Parsing || c == Generating
}

// Severity ranks an entry for display and filtering.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the severity name
func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Entry is one diagnostic.
type Entry struct {
	Category Category
	Severity Severity
	Segment  string // empty for global categories
	Line     int    // 1-based; 0 when not tied to a line
	Message  string
}

// NewEntry builds an entry, dropping the location for global categories.
func NewEntry(cat Category, sev Severity, segment string, line int, msg string) Entry {
	if !cat.IsLocated() {
		segment, line = "", 0
	}
	return Entry{
		Category: cat,
		Severity: sev,
		Segment:  segment,
		Line:     line,
		Message:  msg,
	}
}

// String formats the entry as "<Category> message" or
// "<Category> Segment[Line] : message".
func (e Entry) String() string {
	if e.Segment == "" {
		return fmt.Sprintf("<%s> %s", e.Category, e.Message)
	}
	return fmt.Sprintf("<%s> %s[%d] : %s", e.Category, e.Segment, e.Line, e.Message)
}
