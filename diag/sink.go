package diag

import "strings"

// Sink receives diagnostics.
type Sink interface {
	Log(e Entry)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(e Entry)

// Log calls f(e).
func (f SinkFunc) Log(e Entry) { f(e) }

// Discard drops every entry.
var Discard Sink = SinkFunc(func(Entry) {})

// Tee returns a Sink that forwards every entry to each non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return SinkFunc(func(e Entry) {
		for _, s := range active {
			s.Log(e)
		}
	})
}

// Recorder accumulates entries in arrival order. It is not safe for
// concurrent use, matching the single-threaded engine it observes.
type Recorder struct {
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make([]Entry, 0)}
}

// Log appends e.
func (r *Recorder) Log(e Entry) {
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int { return len(r.entries) }

// Clear discards all recorded entries.
func (r *Recorder) Clear() { r.entries = r.entries[:0] }

// Count returns how many entries have at least the given severity.
func (r *Recorder) Count(min Severity) int {
	n := 0
	for _, e := range r.entries {
		if e.Severity >= min {
			n++
		}
	}
	return n
}

// ByCategory returns the entries of one category.
func (r *Recorder) ByCategory(cat Category) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any entry message contains substr.
func (r *Recorder) Contains(substr string) bool {
	return r.Find(substr) != nil
}

// Find returns the entries whose message contains substr.
func (r *Recorder) Find(substr string) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}
