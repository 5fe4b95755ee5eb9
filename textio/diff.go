package textio

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// maxDiffLines bounds the edit script search.
const maxDiffLines = 10000

type editKind int

const (
	editKeep editKind = iota
	editAdd
	editRemove
)

// edit is one line of an edit script. Line numbers are 1-based; the side
// a line does not appear on has 0.
type edit struct {
	kind    editKind
	oldLine int
	newLine int
	text    string
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	edits              []edit
}

var (
	diffHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	diffHunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	diffAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	diffRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// DiffOptions configures Diff.
type DiffOptions struct {
	Context int // unchanged lines around each change, default 3
	Width   int // truncate lines to this width, default terminal width
	Plain   bool
}

// Diff renders a unified diff between two line sequences. It returns "" when
// they are equal.
func Diff(path string, old, newer []string, opts *DiffOptions) string {
	o := DiffOptions{Context: 3}
	if opts != nil {
		o = *opts
		if o.Context <= 0 {
			o.Context = 3
		}
	}
	if o.Width <= 0 {
		o.Width = terminalWidth()
	}

	if equalLines(old, newer) {
		return ""
	}
	if len(old) > maxDiffLines || len(newer) > maxDiffLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(old), len(newer))
	}

	render := func(s lipgloss.Style, text string) string {
		if o.Plain {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(render(diffHeaderStyle, "--- "+path) + "\n")
	b.WriteString(render(diffHeaderStyle, "+++ "+path+" (generated)") + "\n")

	for _, h := range groupHunks(editScript(old, newer), o.Context) {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
		b.WriteString(render(diffHunkStyle, header) + "\n")

		for _, e := range h.edits {
			text := truncate(e.text, o.Width-2)
			switch e.kind {
			case editAdd:
				b.WriteString(render(diffAddedStyle, "+"+text))
			case editRemove:
				b.WriteString(render(diffRemovedStyle, "-"+text))
			default:
				b.WriteString(" " + text)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// editScript computes a shortest edit script with the Myers algorithm.
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)
	var trace [][]int

	for d := 0; d <= limit; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return backtrack(a, b, trace, offset)
			}
		}
	}
	return nil
}

func backtrack(a, b []string, trace [][]int, offset int) []edit {
	x, y := len(a), len(b)
	var rev []edit

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, edit{kind: editKeep, oldLine: x + 1, newLine: y + 1, text: a[x]})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, edit{kind: editAdd, newLine: y + 1, text: b[y]})
		} else {
			x--
			rev = append(rev, edit{kind: editRemove, oldLine: x + 1, text: a[x]})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// groupHunks keeps context lines around each change and merges changes whose
// context overlaps.
func groupHunks(edits []edit, context int) []hunk {
	var hunks []hunk
	start, end := -1, -1

	flush := func() {
		if start < 0 {
			return
		}
		h := hunk{edits: edits[start:end]}
		for _, e := range h.edits {
			if e.oldLine > 0 && h.oldStart == 0 {
				h.oldStart = e.oldLine
			}
			if e.newLine > 0 && h.newStart == 0 {
				h.newStart = e.newLine
			}
			if e.kind != editAdd {
				h.oldCount++
			}
			if e.kind != editRemove {
				h.newCount++
			}
		}
		hunks = append(hunks, h)
		start, end = -1, -1
	}

	for i, e := range edits {
		if e.kind == editKeep {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(edits), i+context+1)
		if start >= 0 && lo > end {
			flush()
		}
		if start < 0 {
			start = lo
		}
		end = hi
	}
	flush()
	return hunks
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func truncate(s string, width int) string {
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
