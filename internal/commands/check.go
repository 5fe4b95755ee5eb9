package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/console"
	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/simonhull/firebird-suite/wren/engine"
	"github.com/simonhull/firebird-suite/wren/output"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <template>",
		Short: "Load a template and report its segments and problems",
		Long: `Check loads a template, prints every diagnostic produced while parsing it
and lists the segments it defines. The command fails when any diagnostic is
an error.

Example:
  wren check templates/model.tt
  wren check templates/model.tt --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0])
		},
	}
}

func (a *app) runCheck(cmd *cobra.Command, path string) error {
	rec := diag.NewRecorder()
	c := a.newConsole(cmd, console.WithFlusher(diag.Tee(rec, a.diagnostics())))

	if !c.LoadTemplate(a.abs(path)) {
		return fmt.Errorf("template %s could not be loaded", path)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, segmentTable(c.Segments()))
	if tokens := c.Tokens(); len(tokens) > 0 {
		fmt.Fprintf(out, "Tokens: %s\n", strings.Join(tokens, ", "))
	}

	errs, warnings := rec.Count(diag.Error), rec.Count(diag.Warning)-rec.Count(diag.Error)
	if errs > 0 {
		return fmt.Errorf("%s: %d errors, %d warnings", path, errs, warnings)
	}
	output.Success(fmt.Sprintf("%s: %d segments, %d warnings", path, len(c.Segments()), warnings))
	return nil
}

func segmentTable(segments []engine.SegmentInfo) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SEGMENT", "LINES", "FTI", "PAD", "TAB").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, s := range segments {
		t.Row(s.Name, strconv.Itoa(s.Lines), optional(s.FirstTimeIndent), s.PadSegment, optional(s.TabSize))
	}
	return t.Render()
}

func optional(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
