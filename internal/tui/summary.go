package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"textools/internal/processor"
)

// SummaryRow is one line of the summary table. Color overrides the value's
// default ink when set.
type SummaryRow struct {
	Label string
	Value string
	Color lipgloss.Color
}

// SummaryRows lays out the counts of one finished batch.
func SummaryRows(tool string, s processor.Summary, elapsed time.Duration) []SummaryRow {
	return []SummaryRow{
		{Label: "Tool", Value: tool},
		{Label: "Files", Value: fmt.Sprintf("%d", s.Total)},
		{Label: "Succeeded", Value: fmt.Sprintf("%d", s.Succeeded), Color: countColor(s.Succeeded, ColorSuccess)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped), Color: countColor(s.Skipped, ColorWarn)},
		{Label: "Errored", Value: fmt.Sprintf("%d", s.Errored), Color: countColor(s.Errored, ColorError)},
		{Label: "Elapsed", Value: elapsed.Round(time.Millisecond).String()},
	}
}

// countColor highlights non-zero counts only.
func countColor(n int, c lipgloss.Color) lipgloss.Color {
	if n == 0 {
		return ""
	}
	return c
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		style := valueStyle
		if row.Color != "" {
			style = style.Foreground(row.Color)
		}
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), style.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderFailures lists every errored file with its error, or "" when there
// are none.
func RenderFailures(s processor.Summary) string {
	failures := s.Failures()
	if len(failures) == 0 {
		return ""
	}
	lines := []string{errorStyle.Render(fmt.Sprintf("%d failed:", len(failures)))}
	for _, res := range failures {
		lines = append(lines, fmt.Sprintf("  %s: %v", res.Name, res.Err))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
)
