// Package textio connects the template engine to files.
//
// FileSource and MemorySource supply template lines, FileWriter receives
// generated lines. All file access goes through an afero.Fs so the same code
// runs against the OS filesystem and an in-memory one.
//
// Path problems are returned as *PathError values that match ErrFilePath:
//
//	if err := src.SetPath(p); errors.Is(err, textio.ErrFilePath) {
//	    // report and reset
//	}
//
// An existing output file with different content is a conflict, decided by
// a Strategy (force, skip, diff or an interactive prompt).
package textio
