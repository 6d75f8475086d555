package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/tracerange/pkg/timeutil"
)

// renderExperimentList renders the experiment selection screen.
func renderExperimentList(m *Model) string {
	if len(m.experiments) == 0 {
		empty := emptyStateStyle.Render(
			"No experiments found.\n\n" +
				"Register one with\n" +
				"  tracerange experiment add <id> --start <ns> --end <ns>")
		return lipgloss.Place(
			m.width,
			m.height-3, // minus header + footer
			lipgloss.Center,
			lipgloss.Center,
			empty,
		)
	}

	title := panelTitleStyle.Render("Experiments")
	count := dimStyle.Render(fmt.Sprintf("  %d total", len(m.experiments)))

	lines := []string{title + count, ""}

	maxVisible := maxInt(m.height-6, 5)
	startIdx := 0
	if m.selectedExperiment >= maxVisible {
		startIdx = m.selectedExperiment - maxVisible + 1
	}
	endIdx := minInt(startIdx+maxVisible, len(m.experiments))

	for i := startIdx; i < endIdx; i++ {
		e := m.experiments[i]

		id := dimStyle.Render(shortID(e.ExperimentID, 12))
		ts := dimStyle.Render(timeutil.FormatTimestamp(e.StartTime))
		span := dimStyle.Render(timeutil.FormatSpan(e.AbsoluteRange()))

		content := fmt.Sprintf("%s  %s  %s  %s", truncate(e.Name, 32), id, ts, span)

		style := itemStyle
		if i == m.selectedExperiment {
			style = itemSelectedStyle
		}
		lines = append(lines, style.Width(maxInt(m.width-4, 1)).Render(content))
	}

	return strings.Join(lines, "\n")
}
