package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/pkg/timeutil"
)

// handleKey routes keyboard input based on current screen and mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	if m.editing {
		return m.handleEditKey(key)
	}

	if key == "q" {
		return m.quit()
	}

	switch m.screen {
	case ScreenRange:
		return m.handleRangeKey(key)
	default:
		return m.handleListKey(key)
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m = m.closeExperiment()
	return m, tea.Quit
}

// ── Experiment list ──

func (m Model) handleListKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.selectedExperiment < len(m.experiments)-1 {
			m.selectedExperiment++
		}
	case "k", "up":
		if m.selectedExperiment > 0 {
			m.selectedExperiment--
		}
	case "R":
		return m, m.loadExperiments()
	case "enter":
		if m.selectedExperiment < len(m.experiments) {
			return m.openExperiment(m.experiments[m.selectedExperiment])
		}
	}
	return m, nil
}

// ── Range view ──

func (m Model) handleRangeKey(key string) (tea.Model, tea.Cmd) {
	s := m.session
	uc := s.Controller

	switch key {
	case "esc":
		return m.closeExperiment(), nil

	case "h", "left":
		uc.PanView(-m.panStep())
		return m, m.settle()

	case "l", "right":
		uc.PanView(m.panStep())
		return m, m.settle()

	case "+", "=":
		uc.ZoomView(1, 2)
		return m, m.settle()

	case "-", "_":
		uc.ZoomView(2, 1)
		return m, m.settle()

	case "x":
		uc.SetSelectionRange(nil)
		return m, m.settle()

	case "u":
		// Commit a burst still waiting so undo steps back over it.
		s.History.Flush()
		if s.History.Undo() {
			m.statusMsg = "Undo"
		} else {
			m.statusMsg = "Nothing to undo"
		}
		return m, nil

	case "r":
		if s.History.Redo() {
			m.statusMsg = "Redo"
		} else {
			m.statusMsg = "Nothing to redo"
		}
		return m, nil

	case "i":
		m.editing = true
		m.editField = rangeinput.FieldStart
		m.editBuffer = ""
		return m, nil

	case "b":
		label := fmt.Sprintf("bookmark %d", len(m.bookmarks)+1)
		return m, m.saveBookmark(s, label)

	case "j", "down":
		if m.selectedBookmark < len(m.bookmarks)-1 {
			m.selectedBookmark++
		}
		return m, nil

	case "k", "up":
		if m.selectedBookmark > 0 {
			m.selectedBookmark--
		}
		return m, nil

	case "enter":
		if m.selectedBookmark < len(m.bookmarks) {
			b := m.bookmarks[m.selectedBookmark]
			s.ApplyBookmark(b.Range)
			m.statusMsg = fmt.Sprintf("Applied %q", b.Label)
			return m, m.settle()
		}
		return m, nil

	case "d":
		if m.selectedBookmark < len(m.bookmarks) {
			b := m.bookmarks[m.selectedBookmark]
			id, expID := b.RangeID, s.Experiment.ExperimentID
			return m, func() tea.Msg {
				if err := m.store.DeleteRange(id); err != nil {
					return errMsg{err}
				}
				saved, err := m.store.ListRanges(expID)
				if err != nil {
					return errMsg{err}
				}
				return bookmarksLoadedMsg(saved)
			}
		}
		return m, nil
	}
	return m, nil
}

// panStep is one pan step: a fraction of the view width, at least 1.
func (m Model) panStep() int64 {
	v := m.session.Controller.ViewRange()
	step := v.Length() / int64(m.opts.PanFraction)
	if step < 1 {
		step = 1
	}
	return step
}

// ── Selection form ──

func (m Model) handleEditKey(key string) (tea.Model, tea.Cmd) {
	s := m.session

	switch key {
	case "esc":
		s.Form.Cancel()
		m.editing = false
		m.editBuffer = ""
		m.statusMsg = "Edit cancelled"
		return m, nil

	case "tab", "shift+tab":
		if err := m.commitBuffer(); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		if m.editField == rangeinput.FieldStart {
			m.editField = rangeinput.FieldEnd
		} else {
			m.editField = rangeinput.FieldStart
		}
		return m, nil

	case "backspace":
		if len(m.editBuffer) > 0 {
			m.editBuffer = m.editBuffer[:len(m.editBuffer)-1]
		}
		return m, nil

	case "enter":
		if err := m.commitBuffer(); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		return m.submit()
	}

	if len(key) == 1 && ((key[0] >= '0' && key[0] <= '9') || (key == "-" && m.editBuffer == "")) {
		m.editBuffer += key
	}
	return m, nil
}

// commitBuffer moves the typed text into the form. An untouched field
// stays absent.
func (m *Model) commitBuffer() error {
	if m.editBuffer == "" {
		return nil
	}
	if err := m.session.Form.SetField(m.editField, m.editBuffer); err != nil {
		return err
	}
	m.editBuffer = ""
	return nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	err := m.session.SubmitForm()

	var bounds *rangeinput.BoundsError
	switch {
	case err == nil:
		m.editing = false
		sel := m.session.Data()
		start, end := rangeinput.DisplayPair(sel.SelectionRange, sel.Offset)
		m.statusMsg = fmt.Sprintf("Selected %s..%s", start, end)
		if r, err := m.session.Selection(); err == nil {
			m.statusMsg += "  (" + timeutil.FormatSpan(r.Duration()) + ")"
		}
		return m, m.settle()
	case errors.Is(err, rangeinput.ErrNoChange):
		m.editing = false
		m.statusMsg = "Nothing to apply"
		return m, nil
	case errors.As(err, &bounds):
		m.statusMsg = bounds.Error()
		return m, nil
	default:
		m.statusMsg = err.Error()
		return m, nil
	}
}
