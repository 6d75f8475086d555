// Package session wires one open experiment: its range controller,
// undo/redo history, experiment tracker and range form.
//
// Every change of the range controller is published to the tracker
// and offered to the history. User input goes through the form, which
// normalizes it before it is applied to the controller.
package session

import (
	"errors"
	"fmt"

	"github.com/Mr-Dark-debug/tracerange/internal/database"
	"github.com/Mr-Dark-debug/tracerange/internal/history"
	"github.com/Mr-Dark-debug/tracerange/internal/log"
	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
	"github.com/Mr-Dark-debug/tracerange/pkg/timerange"
)

// ErrNoSelection is returned when an operation needs a selection.
var ErrNoSelection = errors.New("no selection")

// Session is an experiment opened for range navigation.
type Session struct {
	Experiment *database.Experiment
	Controller *timegraph.UnitController
	History    *history.Controller
	Form       rangeinput.Form

	tracker     *rangeinput.Tracker
	store       database.Store
	logger      *log.Logger
	unsubscribe func()
}

// Open creates a session over exp. The initial state (whole range in
// view, no selection) is recorded as the first history entry once the
// quiet interval elapses.
func Open(exp *database.Experiment, store database.Store, tracker *rangeinput.Tracker, logger *log.Logger, opts ...history.Option) *Session {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With("experiment", exp.ExperimentID)

	uc := timegraph.NewUnitController(exp.AbsoluteRange(), exp.Offset())
	opts = append([]history.Option{history.WithLogger(logger.Slog())}, opts...)

	s := &Session{
		Experiment: exp,
		Controller: uc,
		History:    history.NewController(uc, opts...),
		tracker:    tracker,
		store:      store,
		logger:     logger,
	}

	s.unsubscribe = uc.OnChange(func(kind timegraph.ChangeKind) {
		s.tracker.Update(uc.Data(exp.ExperimentID))
		s.History.AddCurrentState()
	})

	tracker.Update(uc.Data(exp.ExperimentID))
	tracker.Select(exp.ExperimentID)
	s.History.AddCurrentState()
	logger.Info("experiment opened", "offset", exp.Offset(), "absolute_range", exp.AbsoluteRange())
	return s
}

// Data returns the current controller state.
func (s *Session) Data() timegraph.ExperimentData {
	return s.Controller.Data(s.Experiment.ExperimentID)
}

// SubmitForm resolves the form input and applies it as the new
// selection. ErrNoChange and *rangeinput.BoundsError are passed through.
func (s *Session) SubmitForm() error {
	r, err := s.Form.Submit(s.Data())
	if err != nil {
		var bounds *rangeinput.BoundsError
		if errors.As(err, &bounds) {
			s.logger.Warn("selection rejected", "start_invalid", bounds.StartInvalid, "end_invalid", bounds.EndInvalid)
		}
		return err
	}
	s.Controller.SetSelectionRange(&r)
	s.logger.Debug("selection applied", "start", r.Start, "end", r.End)
	return nil
}

// Selection returns the current selection as a TimeRange carrying the
// experiment offset, ordered start first.
func (s *Session) Selection() (timerange.TimeRange, error) {
	sel := s.Controller.SelectionRange()
	if sel == nil {
		return timerange.TimeRange{}, ErrNoSelection
	}
	o := sel.Ordered()
	return timerange.NewWithOffset(o.Start, o.End, s.Controller.Offset()), nil
}

// Bookmark saves the current selection under label.
func (s *Session) Bookmark(label string) (int64, error) {
	r, err := s.Selection()
	if err != nil {
		return 0, err
	}
	id, err := s.store.SaveRange(s.Experiment.ExperimentID, label, r)
	if err != nil {
		return 0, fmt.Errorf("bookmarking selection: %w", err)
	}
	s.logger.Info("selection bookmarked", "label", label, "range", r.String())
	return id, nil
}

// ApplyBookmark selects a saved range. Bookmarks saved with another
// offset are converted to this experiment's coordinates.
func (s *Session) ApplyBookmark(r timerange.TimeRange) {
	offset := s.Controller.Offset()
	sel := timegraph.Range{Start: r.Start() - offset, End: r.End() - offset}
	s.Controller.SetSelectionRange(&sel)
}

// Close stops listening to the controller and drops a pending commit.
func (s *Session) Close() {
	s.unsubscribe()
	s.History.Close()
	s.tracker.Remove(s.Experiment.ExperimentID)
	s.logger.Info("experiment closed")
}
