package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	TRACERANGE  |  Experiment kernel-trace  |  offset 1700000000  |  history 3/5
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("TRACERANGE")
	sep := headerSepStyle.Render(" │ ")

	parts := []string{brand, sep}

	if s := m.session; s != nil {
		parts = append(parts, headerMetaStyle.Render(
			fmt.Sprintf("Experiment %s", truncate(s.Experiment.Name, 32))))
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(
			fmt.Sprintf("offset %d", s.Controller.Offset())))
		parts = append(parts, sep)

		i, n := s.History.Cursor()
		parts = append(parts, headerMetaStyle.Render(
			fmt.Sprintf("history %d/%d", i, n)))
	} else {
		parts = append(parts, headerMetaStyle.Render("Experiments"))
	}

	return headerBarStyle.Width(m.width).Render(strings.Join(parts, ""))
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left, right string

	if m.statusMsg != "" {
		if m.err != nil {
			left = statusErrorStyle.Render(m.statusMsg)
		} else {
			left = statusStyle.Render(m.statusMsg)
		}
	}

	switch {
	case m.editing:
		right = renderHints([]hint{
			{"0-9", "type"},
			{"tab", "field"},
			{"enter", "apply"},
			{"esc", "cancel"},
		})
	case m.screen == ScreenRange:
		right = renderHints([]hint{
			{"h/l", "pan"},
			{"+/-", "zoom"},
			{"i", "edit"},
			{"u/r", "undo/redo"},
			{"b", "bookmark"},
			{"esc", "back"},
			{"q", "quit"},
		})
	default:
		right = renderHints([]hint{
			{"↑↓", "navigate"},
			{"enter", "open"},
			{"R", "reload"},
			{"q", "quit"},
		})
	}

	gap := maxInt(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
