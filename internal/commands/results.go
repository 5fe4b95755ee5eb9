package commands

import (
	"fmt"
	"path/filepath"

	"github.com/simonhull/firebird-suite/wren/output"
	"github.com/simonhull/firebird-suite/wren/textio"
)

type result struct {
	path    string
	outcome textio.Outcome
}

// results collects write outcomes so they are reported only after the
// transaction is committed.
type results struct {
	dir   string
	items []result
}

func (r *results) record(path string, o textio.Outcome) {
	r.items = append(r.items, result{path: path, outcome: o})
}

func (r *results) count(o textio.Outcome) int {
	n := 0
	for _, it := range r.items {
		if it.outcome == o {
			n++
		}
	}
	return n
}

func (r *results) rel(path string) string {
	if rel, err := filepath.Rel(r.dir, path); err == nil {
		return rel
	}
	return path
}

func (r *results) print() {
	for _, it := range r.items {
		name := r.rel(it.path)
		switch it.outcome {
		case textio.Staged:
			output.Success("wrote " + name)
		case textio.Created:
			output.Info("would create " + name)
		case textio.Overwritten:
			output.Info("would overwrite " + name)
		case textio.Skipped:
			output.Warn("skipped " + name)
		case textio.Unchanged:
			output.Verbose("unchanged " + name)
		}
	}
}

func (r *results) summary(dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("dry run: %d files would be written, %d unchanged, %d skipped",
			r.count(textio.Created)+r.count(textio.Overwritten), r.count(textio.Unchanged), r.count(textio.Skipped))
	}
	return fmt.Sprintf("%d files written, %d unchanged, %d skipped",
		r.count(textio.Staged), r.count(textio.Unchanged), r.count(textio.Skipped))
}
