// Package output provides styled terminal output for the wren CLI.
//
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/firebird-suite/wren/diag"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

// SetWriter redirects all output and returns the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func emit(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}

// Success prints a success message with 🔥 emoji and green color.
//
// Example:
//
//	output.Success("Wrote models/user_wrapper.go")
func Success(msg string) {
	emit(successStyle.Render("🔥 " + msg))
}

// Error prints an error message with ❌ emoji and red color.
func Error(msg string) {
	emit(errorStyle.Render("❌ " + msg))
}

// Warn prints a warning with ⚠️ emoji and yellow color.
func Warn(msg string) {
	emit(warnStyle.Render("⚠️  " + msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	emit(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("wren generate wren.manifest.yml")
func Step(msg string) {
	emit(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
func Verbose(msg string) {
	if IsVerbose() {
		emit(stepStyle.Render("🔍 " + msg))
	}
}

// Diagnostic prints a template diagnostic styled by severity. Info entries
// only appear in verbose mode.
func Diagnostic(e diag.Entry) {
	switch e.Severity {
	case diag.Error:
		Error(e.String())
	case diag.Warning:
		Warn(e.String())
	default:
		Verbose(e.String())
	}
}

// Sink returns a diag.Sink that prints each entry with Diagnostic.
func Sink() diag.Sink {
	return diag.SinkFunc(Diagnostic)
}
