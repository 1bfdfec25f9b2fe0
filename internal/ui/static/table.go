// Package static provides non-interactive terminal output components.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/raphi011/repo-check/internal/scan"
	"github.com/raphi011/repo-check/internal/ui/styles"
)

// ResultHeaders are the column headers for [ResultRow].
var ResultHeaders = []string{"PATH", "STATUS", "REASON"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// MaxReasonWidth caps the REASON column; longer text is cut with an ellipsis.
const MaxReasonWidth = 80

// ResultRow formats a scan result as a table row.
func ResultRow(r scan.Result) []string {
	if r.Failed() {
		return []string{r.Path, styles.ErrorStyle.Render(styles.StatusError), truncateReason(r.Err.Error())}
	}
	return []string{r.Path, styles.Status(r.Verdict.Status), truncateReason(strings.Join(r.Verdict.Reasons, "; "))}
}

func truncateReason(s string) string {
	// git stderr can span lines
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, MaxReasonWidth, "…")
}

// RenderResults renders results as a PATH/STATUS/REASON table.
func RenderResults(results []scan.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, ResultRow(r))
	}
	return RenderTable(ResultHeaders, rows)
}
