package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/tracerange/internal/config"
	"github.com/Mr-Dark-debug/tracerange/internal/database"
	"github.com/Mr-Dark-debug/tracerange/internal/debounce"
	"github.com/Mr-Dark-debug/tracerange/internal/history"
	"github.com/Mr-Dark-debug/tracerange/internal/log"
	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/internal/session"
)

// ────────────────────────────────────────────────────────────
// Screens
// ────────────────────────────────────────────────────────────

// Screen is the currently displayed screen.
type Screen int

const (
	ScreenExperiments Screen = iota
	ScreenRange
)

// Options tune the range view.
type Options struct {
	// HistoryQuiet is the pause after which range changes are committed
	// to history.
	HistoryQuiet time.Duration
	// PanFraction is the share of the view (1/N) moved by one pan step.
	PanFraction int
	// Scheduler drives history commits. Nil means wall-clock timers.
	Scheduler debounce.Scheduler
}

// OptionsFromConfig returns the options configured in cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{HistoryQuiet: cfg.HistoryQuiet, PanFraction: cfg.PanFraction}
}

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model for the tracerange TUI.
type Model struct {
	store   database.Store
	logger  *log.Logger
	opts    Options
	tracker *rangeinput.Tracker

	// Data
	experiments []*database.Experiment
	session     *session.Session
	bookmarks   []*database.SavedRange

	// UI state
	screen             Screen
	selectedExperiment int
	selectedBookmark   int
	editing            bool
	editField          rangeinput.Field
	editBuffer         string
	width              int
	height             int

	// Status
	statusMsg string
	err       error
}

// NewModel creates a new TUI model backed by the given store.
func NewModel(store database.Store, logger *log.Logger, opts Options) Model {
	if logger == nil {
		logger = log.Nop()
	}
	if opts.HistoryQuiet <= 0 {
		opts.HistoryQuiet = history.DefaultQuietInterval
	}
	if opts.PanFraction <= 0 {
		opts.PanFraction = config.DefaultPanFraction
	}
	return Model{
		store:     store,
		logger:    logger,
		opts:      opts,
		tracker:   rangeinput.NewTracker(),
		statusMsg: "Loading experiments...",
	}
}

// Session returns the open session, or nil on the experiment list.
func (m Model) Session() *session.Session { return m.session }

// Tracker returns the active-experiment tracker.
func (m Model) Tracker() *rangeinput.Tracker { return m.tracker }

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type experimentsLoadedMsg []*database.Experiment
type bookmarksLoadedMsg []*database.SavedRange
type bookmarkSavedMsg struct {
	id    int64
	label string
}

// historySettledMsg redraws once a pending history commit has landed.
type historySettledMsg struct{}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.loadExperiments()
}

func (m Model) loadExperiments() tea.Cmd {
	return func() tea.Msg {
		exps, err := m.store.QueryExperiments(database.ExperimentFilter{Limit: 100})
		if err != nil {
			return errMsg{err}
		}
		return experimentsLoadedMsg(exps)
	}
}

func (m Model) loadBookmarks(experimentID string) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.store.ListRanges(experimentID)
		if err != nil {
			return errMsg{err}
		}
		return bookmarksLoadedMsg(saved)
	}
}

func (m Model) saveBookmark(s *session.Session, label string) tea.Cmd {
	return func() tea.Msg {
		id, err := s.Bookmark(label)
		if err != nil {
			return errMsg{err}
		}
		return bookmarkSavedMsg{id: id, label: label}
	}
}

// settle schedules a redraw after the quiet interval so the history
// indicator reflects the committed entry.
func (m Model) settle() tea.Cmd {
	return tea.Tick(m.opts.HistoryQuiet+50*time.Millisecond, func(time.Time) tea.Msg {
		return historySettledMsg{}
	})
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case experimentsLoadedMsg:
		m.experiments = []*database.Experiment(msg)
		m.selectedExperiment = clamp(m.selectedExperiment, 0, maxInt(len(m.experiments)-1, 0))
		if len(m.experiments) > 0 {
			m.statusMsg = fmt.Sprintf("%d experiments", len(m.experiments))
		} else {
			m.statusMsg = "No experiments"
		}
		return m, nil

	case bookmarksLoadedMsg:
		m.bookmarks = []*database.SavedRange(msg)
		m.selectedBookmark = clamp(m.selectedBookmark, 0, maxInt(len(m.bookmarks)-1, 0))
		return m, nil

	case bookmarkSavedMsg:
		m.statusMsg = fmt.Sprintf("Saved %q (#%d)", msg.label, msg.id)
		if m.session == nil {
			return m, nil
		}
		return m, m.loadBookmarks(m.session.Experiment.ExperimentID)

	case historySettledMsg:
		return m, nil

	case errMsg:
		m.err = msg.err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		m.logger.Error("tui operation failed", "error", msg.err)
		return m, nil
	}

	return m, nil
}

// openExperiment starts a session over exp and switches to the range
// screen.
func (m Model) openExperiment(exp *database.Experiment) (Model, tea.Cmd) {
	hopts := []history.Option{history.WithQuietInterval(m.opts.HistoryQuiet)}
	if m.opts.Scheduler != nil {
		hopts = append(hopts, history.WithScheduler(m.opts.Scheduler))
	}
	m.session = session.Open(exp, m.store, m.tracker, m.logger, hopts...)
	m.screen = ScreenRange
	m.bookmarks = nil
	m.selectedBookmark = 0
	m.err = nil
	m.statusMsg = exp.Name
	return m, tea.Batch(m.loadBookmarks(exp.ExperimentID), m.settle())
}

// closeExperiment ends the session and returns to the list.
func (m Model) closeExperiment() Model {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
	m.screen = ScreenExperiments
	m.editing = false
	m.bookmarks = nil
	m.statusMsg = fmt.Sprintf("%d experiments", len(m.experiments))
	return m
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)

	var body string
	switch m.screen {
	case ScreenRange:
		body = renderRangeView(&m, m.width, m.height-2)
	default:
		body = renderExperimentList(&m)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
