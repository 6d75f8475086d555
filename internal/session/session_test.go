package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/tracerange/internal/database"
	"github.com/Mr-Dark-debug/tracerange/internal/debounce/debouncetest"
	"github.com/Mr-Dark-debug/tracerange/internal/history"
	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
	"github.com/Mr-Dark-debug/tracerange/pkg/timerange"
)

func openTestSession(t *testing.T) (*Session, *database.DBService, *rangeinput.Tracker, *debouncetest.Scheduler) {
	t.Helper()

	store, err := database.NewDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	exp := &database.Experiment{ExperimentID: "exp", Name: "trace", StartTime: 100, EndTime: 1100}
	require.NoError(t, store.InsertExperiment(exp))

	tracker := rangeinput.NewTracker()
	sched := debouncetest.New()
	s := Open(exp, store, tracker, nil, history.WithScheduler(sched))
	t.Cleanup(s.Close)
	return s, store, tracker, sched
}

func TestOpen(t *testing.T) {
	s, _, tracker, sched := openTestSession(t)

	d, ok := tracker.Active()
	require.True(t, ok)
	assert.Equal(t, "exp", d.ID)
	assert.Equal(t, int64(100), d.Offset)
	assert.Equal(t, int64(1000), d.AbsoluteRange)

	sched.Advance(time.Second)
	i, _ := s.History.Cursor()
	assert.Equal(t, 1, i, "initial state is the first entry")
}

func TestSubmitForm_AppliesAndRecords(t *testing.T) {
	s, _, tracker, sched := openTestSession(t)
	sched.Advance(time.Second)

	require.NoError(t, s.Form.SetField(rangeinput.FieldStart, "300"))
	require.NoError(t, s.Form.SetField(rangeinput.FieldEnd, "200"))
	require.NoError(t, s.SubmitForm())

	assert.Equal(t, &timegraph.Range{Start: 200, End: 100}, s.Controller.SelectionRange())
	d, _ := tracker.Active()
	assert.Equal(t, &timegraph.Range{Start: 200, End: 100}, d.SelectionRange)

	sched.Advance(time.Second)
	i, _ := s.History.Cursor()
	assert.Equal(t, 2, i)

	require.True(t, s.History.Undo())
	assert.Nil(t, s.Controller.SelectionRange())
	d, _ = tracker.Active()
	assert.Nil(t, d.SelectionRange, "tracker follows restored state")

	sched.Advance(time.Second)
	i, max := s.History.Cursor()
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, max)
}

func TestSubmitForm_Rejected(t *testing.T) {
	s, _, _, _ := openTestSession(t)

	require.NoError(t, s.Form.SetField(rangeinput.FieldStart, "50"))
	require.NoError(t, s.Form.SetField(rangeinput.FieldEnd, "500"))

	var bounds *rangeinput.BoundsError
	require.ErrorAs(t, s.SubmitForm(), &bounds)
	assert.True(t, bounds.StartInvalid)
	assert.False(t, bounds.EndInvalid)
	assert.Nil(t, s.Controller.SelectionRange())
}

func TestSubmitForm_NoChange(t *testing.T) {
	s, _, _, _ := openTestSession(t)
	assert.ErrorIs(t, s.SubmitForm(), rangeinput.ErrNoChange)
}

func TestBookmark(t *testing.T) {
	s, store, _, _ := openTestSession(t)

	_, err := s.Bookmark("none")
	assert.ErrorIs(t, err, ErrNoSelection)

	s.Controller.SetSelectionRange(&timegraph.Range{Start: 900, End: 400})
	id, err := s.Bookmark("hot path")
	require.NoError(t, err)
	assert.Positive(t, id)

	saved, err := store.ListRanges("exp")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, timerange.NewWithOffset(400, 900, 100), saved[0].Range)

	s.Controller.SetSelectionRange(nil)
	s.ApplyBookmark(saved[0].Range)
	assert.Equal(t, &timegraph.Range{Start: 400, End: 900}, s.Controller.SelectionRange())

	s.ApplyBookmark(timerange.New(600, 700))
	assert.Equal(t, &timegraph.Range{Start: 500, End: 600}, s.Controller.SelectionRange())
}

func TestClose_RemovesFromTracker(t *testing.T) {
	store, err := database.NewDBService(":memory:")
	require.NoError(t, err)
	defer store.Close()

	tracker := rangeinput.NewTracker()
	exp := &database.Experiment{ExperimentID: "x", StartTime: 0, EndTime: 10}
	s := Open(exp, store, tracker, nil, history.WithScheduler(debouncetest.New()))
	s.Close()

	_, ok := tracker.Get("x")
	assert.False(t, ok)

	s.Controller.SetViewRange(timegraph.Range{Start: 1, End: 2})
	_, ok = tracker.Get("x")
	assert.False(t, ok, "listener unsubscribed")
}
