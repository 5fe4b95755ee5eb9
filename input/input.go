// Package input provides interactive terminal input utilities.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Asker reads answers from in and writes prompts to out.
type Asker struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates an Asker. Nil arguments default to stdin and stdout.
func New(in io.Reader, out io.Writer) *Asker {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Asker{in: bufio.NewReader(in), out: out}
}

// Prompt asks for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
//	dir := a.Prompt("Output directory", "generated")
//	// Displays: Output directory (generated): _
func (a *Asker) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(a.out, promptStyle.Render(message)+" "+hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(a.out, promptStyle.Render(message)+": ")
	}

	answer, _ := a.in.ReadString('\n')
	if answer = strings.TrimSpace(answer); answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question. Enter alone, or end of input, returns
// defaultYes.
//
//	if a.Confirm("Delete all files in generated?", false) { ... }
//	// Displays: Delete all files in generated? [y/N]: _
func (a *Asker) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(a.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	answer, _ := a.in.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var std = New(nil, nil)

// Prompt asks on stdin and stdout.
func Prompt(message, defaultValue string) string { return std.Prompt(message, defaultValue) }

// Confirm asks on stdin and stdout.
func Confirm(message string, defaultYes bool) bool { return std.Confirm(message, defaultYes) }
