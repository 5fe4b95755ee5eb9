package engine

import (
	"fmt"
	"regexp"
)

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// IsValidName reports whether name is usable as a segment, option or token
// name: a letter followed by letters, digits or underscores.
func IsValidName(name string) bool {
	return validName.MatchString(name)
}

const defaultSegmentPrefix = "DefaultSegment"

// nameGenerator hands out DefaultSegmentN names for headers that are missing
// or unusable. Names for which taken reports true are skipped, so a template
// that already uses a DefaultSegmentN name keeps it. The counter restarts on
// a full reset.
type nameGenerator struct {
	n     int
	taken func(name string) bool
}

func (g *nameGenerator) next() string {
	for {
		g.n++
		name := fmt.Sprintf("%s%d", defaultSegmentPrefix, g.n)
		if g.taken == nil || !g.taken(name) {
			return name
		}
	}
}

func (g *nameGenerator) reset() { g.n = 0 }
