// Package diag carries the recoverable-diagnostic stream produced while
// loading templates and generating text.
//
// # Overview
//
// The template engine never prints and never fails on malformed input. Every
// condition it recovers from (a bad control code, an unknown token, a
// truncated indent) is reported as an Entry to a Sink supplied by the caller.
// Resource failures such as a missing template file are returned as errors
// instead and never travel through a Sink.
//
// # Categories
//
//   - Setup, Loading, Writing, Reset: global entries without a location
//   - Parsing, Generating: entries scoped to a segment name and line number
//
// # Usage
//
//	rec := diag.NewRecorder()
//	eng := engine.New(source, sink, engine.WithDiagnostics(rec))
//	eng.Load()
//	for _, e := range rec.Entries() {
//	    fmt.Println(e)
//	}
package diag
