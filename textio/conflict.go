package textio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Resolution is the decision taken for an output file that already exists
// with different content.
type Resolution int

const (
	Skip Resolution = iota
	Overwrite
	ShowDiff
	Cancel
)

func (r Resolution) String() string {
	switch r {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	case ShowDiff:
		return "diff"
	default:
		return "cancel"
	}
}

// Conflict modes accepted by NewStrategy.
const (
	ModePrompt = "prompt"
	ModeForce  = "force"
	ModeSkip   = "skip"
	ModeDiff   = "diff"
)

// Modes lists the valid conflict modes.
func Modes() []string { return []string{ModePrompt, ModeForce, ModeSkip, ModeDiff} }

// ErrNotInteractive is returned when a conflict needs a prompt but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("conflict needs a decision but stdin is not a terminal; use --conflict=force or --conflict=skip")

// Strategy decides what to do with a conflicting file.
type Strategy interface {
	Resolve(path string, existing, generated []string) (Resolution, error)
}

// NewStrategy returns the strategy for a conflict mode. Diff output goes to out.
func NewStrategy(mode string, out io.Writer) (Strategy, error) {
	if out == nil {
		out = os.Stdout
	}
	switch strings.ToLower(mode) {
	case ModeForce:
		return ForceStrategy{}, nil
	case ModeSkip:
		return SkipStrategy{}, nil
	case ModeDiff:
		return &DiffStrategy{Out: out, Next: &PromptStrategy{Out: out}}, nil
	case ModePrompt, "":
		return &PromptStrategy{Out: out}, nil
	}
	return nil, fmt.Errorf("unknown conflict mode %q (want one of %s)", mode, strings.Join(Modes(), ", "))
}

// ForceStrategy always overwrites.
type ForceStrategy struct{}

func (ForceStrategy) Resolve(string, []string, []string) (Resolution, error) { return Overwrite, nil }

// SkipStrategy always keeps the existing file.
type SkipStrategy struct{}

func (SkipStrategy) Resolve(string, []string, []string) (Resolution, error) { return Skip, nil }

// DiffStrategy shows the diff first and then defers to Next. Short diffs are
// printed to Out; long ones open a scrollable viewer.
type DiffStrategy struct {
	Out  io.Writer
	Next Strategy
}

// inlineDiffLimit is the longest diff printed without the viewer.
const inlineDiffLimit = 20

func (s *DiffStrategy) Resolve(path string, existing, generated []string) (Resolution, error) {
	diff := Diff(path, existing, generated, nil)

	if strings.Count(diff, "\n") > inlineDiffLimit && isTerminal() {
		final, err := tea.NewProgram(newDiffViewer(path, diff), tea.WithAltScreen()).Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show diff: %w", err)
		}
		if final.(diffViewer).cancelled {
			return Cancel, nil
		}
	} else {
		out := s.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintln(out, diff)
	}

	if s.Next == nil {
		return Skip, nil
	}
	return s.Next.Resolve(path, existing, generated)
}

// PromptStrategy asks with a keyboard menu. Choosing to see the diff shows it
// and asks again.
type PromptStrategy struct {
	Out io.Writer
}

func (s *PromptStrategy) Resolve(path string, existing, generated []string) (Resolution, error) {
	if !isTerminal() {
		return Cancel, ErrNotInteractive
	}

	for {
		final, err := tea.NewProgram(newConflictMenu(path, len(existing), len(generated))).Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		choice := final.(conflictMenu).chosen
		if choice == nil {
			return Cancel, nil
		}
		if *choice != ShowDiff {
			return *choice, nil
		}

		diff := &DiffStrategy{Out: s.Out}
		if r, err := diff.Resolve(path, existing, generated); err != nil || r == Cancel {
			return Cancel, err
		}
	}
}

var (
	conflictWarnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	conflictSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	conflictMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	conflictTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	viewerBorderStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// conflictChoices is ordered like the menu.
var conflictChoices = []struct {
	label      string
	resolution Resolution
}{
	{"Show diff and decide", ShowDiff},
	{"Skip (keep existing file)", Skip},
	{"Overwrite (replace with generated text)", Overwrite},
	{"Cancel", Cancel},
}

type conflictMenu struct {
	path          string
	existingLines int
	newLines      int
	cursor        int
	chosen        *Resolution
}

func newConflictMenu(path string, existingLines, newLines int) conflictMenu {
	return conflictMenu{path: path, existingLines: existingLines, newLines: newLines}
}

func (m conflictMenu) Init() tea.Cmd { return nil }

func (m conflictMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(conflictChoices)-1 {
			m.cursor++
		}
	case "enter":
		r := conflictChoices[m.cursor].resolution
		m.chosen = &r
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenu) View() string {
	var b strings.Builder

	b.WriteString(conflictWarnStyle.Render("File already exists: ") + conflictTitleStyle.Render(m.path) + "\n")
	b.WriteString(conflictMutedStyle.Render(fmt.Sprintf("    existing: %d lines, generated: %d lines", m.existingLines, m.newLines)) + "\n\n")
	b.WriteString(conflictMutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, c := range conflictChoices {
		if i == m.cursor {
			b.WriteString("    " + conflictSelectedStyle.Render("> "+c.label) + "\n")
			continue
		}
		b.WriteString("      " + c.label + "\n")
	}
	return b.String()
}

// diffViewer pages through a long diff.
type diffViewer struct {
	path      string
	diff      string
	view      viewport.Model
	ready     bool
	cancelled bool
}

func newDiffViewer(path, diff string) diffViewer {
	return diffViewer{path: path, diff: diff}
}

func (m diffViewer) Init() tea.Cmd { return nil }

func (m diffViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		const chrome = 4 // header and footer lines
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-chrome)
			m.view.SetContent(m.diff)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - chrome
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m diffViewer) View() string {
	if !m.ready {
		return "Loading diff..."
	}

	header := viewerBorderStyle.Render(fmt.Sprintf("── %s (%3.f%%)", m.path, m.view.ScrollPercent()*100))
	footer := viewerBorderStyle.Render("── [↑/↓/PgUp/PgDn] Scroll    [q] Back    [ctrl+c] Cancel")
	return header + "\n\n" + m.view.View() + "\n\n" + footer
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
