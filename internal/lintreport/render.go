package lintreport

import (
	"fmt"
	"io"
	"strconv"

	"logsift/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5d5d5d")).
			PaddingLeft(1).
			PaddingRight(1)

	emptyStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1)
)

// Progress is advanced once per written file block. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	Add(n int) error
}

// WriteSummary prints the console summary. The per-file lines are plain text
// so the output stays greppable; only the title and counts are styled.
func WriteSummary(w io.Writer, entries []types.SummaryEntry) {
	fmt.Fprintln(w, titleStyle.Render("Files With The Most Lint Errors"))

	if len(entries) == 0 {
		fmt.Fprintln(w, emptyStyle.Render("🎉 No files with errors."))
		return
	}

	for _, entry := range entries {
		fmt.Fprintf(w, "%s: %s errors, %s warnings\n",
			entry.Name,
			color.RedString("%d", entry.ErrorCount),
			color.YellowString("%d", entry.WarningCount))
		for _, m := range entry.TopErrors {
			rule := m.RuleID
			if rule == "" {
				rule = "unknown"
			}
			fmt.Fprintf(w, "  - L%s: %s - %s\n", formatPos(m.Line), rule, m.Message)
		}
	}
}

// WriteTextReport writes the flattened report: a header and totals line per
// file, then one line per message with the full message text.
func WriteTextReport(w io.Writer, entries []types.FlatEntry, progress Progress) error {
	for i, entry := range entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "File: %s\nErrors: %d, Warnings: %d\n",
			entry.FilePath, entry.ErrorCount, entry.WarningCount); err != nil {
			return err
		}

		for _, m := range entry.Messages {
			rule := m.RuleID
			if rule == "" {
				rule = "(none)"
			}
			if _, err := fmt.Fprintf(w, "  [%s] %s:%s %s - %s\n",
				m.Severity, formatPos(m.Line), formatPos(m.Column), rule, m.Message); err != nil {
				return err
			}
		}

		if progress != nil {
			_ = progress.Add(1)
		}
	}
	return nil
}

func formatPos(p *int) string {
	if p == nil {
		return "?"
	}
	return strconv.Itoa(*p)
}
