package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/pkg/timeutil"
)

// renderRangeView renders the opened experiment: the view and selection
// bars, the selection form, the history state and the bookmarks.
func renderRangeView(m *Model, width, height int) string {
	s := m.session
	if s == nil {
		return ""
	}

	barWidth := maxInt(width-14, 10)
	data := s.Data()
	form := s.Form.View(data)

	var lines []string

	// ── Bars ──
	title := panelTitleStyle.Render("Range")
	title += dimStyle.Render(fmt.Sprintf("  %d .. %d  (%s)",
		data.Offset, data.Offset+data.AbsoluteRange, timeutil.FormatSpan(data.AbsoluteRange)))
	lines = append(lines, title, "")

	view := data.ViewRange
	lines = append(lines, barLabelStyle.Render("view      ")+
		renderBar(view.Start, view.End, data.AbsoluteRange, barWidth, barViewStyle.Render("█")))
	lines = append(lines, barLabelStyle.Render("          ")+
		dimStyle.Render(fmt.Sprintf("%s .. %s  (%s)", form.ViewStart, form.ViewEnd, timeutil.FormatSpan(view.Length()))))

	if sel := data.SelectionRange; sel != nil {
		lines = append(lines, barLabelStyle.Render("selection ")+
			renderBar(sel.Start, sel.End, data.AbsoluteRange, barWidth, barSelectionStyle.Render("▓")))
	} else {
		lines = append(lines, barLabelStyle.Render("selection ")+fieldPlaceholderStyle.Render("none"))
	}
	lines = append(lines, "")

	// ── Form ──
	formStyle := panelStyle
	if m.editing {
		formStyle = panelActiveStyle
	}
	fields := lipgloss.JoinHorizontal(lipgloss.Top,
		renderField(m, rangeinput.FieldStart, form.SelectionStart, form.StartValid),
		"    ",
		renderField(m, rangeinput.FieldEnd, form.SelectionEnd, form.EndValid),
	)
	lines = append(lines, formStyle.Width(maxInt(width-2, 1)).Render(fields))

	// ── History ──
	lines = append(lines, renderHistory(m))
	lines = append(lines, "")

	// ── Bookmarks ──
	lines = append(lines, renderBookmarks(m, width, height-len(lines)))

	return strings.Join(lines, "\n")
}

// renderField draws one selection field. While editing, the focused
// field shows the typed buffer.
func renderField(m *Model, field rangeinput.Field, value string, valid bool) string {
	label := fieldLabelStyle.Render(field.String() + " ")

	if m.editing && m.editField == field {
		text := m.editBuffer
		if text == "" {
			text = value
		}
		return label + fieldEditingStyle.Render(" "+text+"▏")
	}

	switch {
	case !valid:
		return label + fieldInvalidStyle.Render(value+" out of bounds")
	case value == "":
		return label + fieldPlaceholderStyle.Render("unset")
	default:
		return label + fieldValueStyle.Render(value)
	}
}

func renderHistory(m *Model) string {
	h := m.session.History

	undo := historyOffStyle.Render("undo")
	if h.CanUndo() {
		undo = historyOnStyle.Render("undo")
	}
	redo := historyOffStyle.Render("redo")
	if h.CanRedo() {
		redo = historyOnStyle.Render("redo")
	}
	return dimStyle.Render("history   ") + undo + "  " + redo + dimStyle.Render("  "+h.State().String())
}

func renderBookmarks(m *Model, width, height int) string {
	title := panelTitleDimStyle.Render("Bookmarks")
	if len(m.bookmarks) == 0 {
		return title + "\n" + fieldPlaceholderStyle.Render("  press b to bookmark the selection")
	}
	title = panelTitleStyle.Render("Bookmarks") + dimStyle.Render(fmt.Sprintf("  %d", len(m.bookmarks)))

	lines := []string{title}
	maxVisible := maxInt(height-2, 3)
	startIdx := 0
	if m.selectedBookmark >= maxVisible {
		startIdx = m.selectedBookmark - maxVisible + 1
	}
	endIdx := minInt(startIdx+maxVisible, len(m.bookmarks))

	for i := startIdx; i < endIdx; i++ {
		b := m.bookmarks[i]
		content := fmt.Sprintf("%-20s %d .. %d  %s",
			truncate(b.Label, 20), b.Range.Start(), b.Range.End(), timeutil.FormatSpan(b.Range.Duration()))

		style := itemStyle
		if i == m.selectedBookmark {
			style = itemSelectedStyle
		}
		lines = append(lines, style.Width(maxInt(width-4, 1)).Render(content))
	}
	return strings.Join(lines, "\n")
}
