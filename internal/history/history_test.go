package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/tracerange/internal/debounce/debouncetest"
	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
)

func newTestController(t *testing.T) (*Controller, *timegraph.UnitController, *debouncetest.Scheduler) {
	t.Helper()
	uc := timegraph.NewUnitController(10_000, 0)
	sched := debouncetest.New()
	c := NewController(uc, WithScheduler(sched))
	return c, uc, sched
}

func view(start, end int64) timegraph.Range {
	return timegraph.Range{Start: start, End: end}
}

func TestInitialState(t *testing.T) {
	c, _, _ := newTestController(t)

	i, max := c.Cursor()
	assert.Equal(t, 0, i)
	assert.Equal(t, 0, max)
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.CanUndo())
	assert.False(t, c.CanRedo())
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestNotify_CoalescesBurst(t *testing.T) {
	c, _, sched := newTestController(t)

	for k := int64(0); k < 10; k++ {
		if k > 0 {
			sched.Advance(10 * time.Millisecond)
		}
		c.Notify(Snapshot{View: view(k, k+100)})
		assert.Equal(t, PendingCommit, c.State())
	}

	sched.Advance(DefaultQuietInterval)

	i, max := c.Cursor()
	assert.Equal(t, 1, i)
	assert.Equal(t, 1, max)
	assert.Equal(t, Idle, c.State())

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, view(9, 109), cur.View)
}

func TestUndoRedo_CursorDiscipline(t *testing.T) {
	c, uc, sched := newTestController(t)

	for k := int64(1); k <= 3; k++ {
		uc.SetViewRange(view(0, k*1000))
		c.AddCurrentState()
		sched.Advance(600 * time.Millisecond)
	}
	i, max := c.Cursor()
	assert.Equal(t, 3, i)
	assert.Equal(t, 3, max)

	assert.True(t, c.Undo())
	assert.True(t, c.Undo())
	i, _ = c.Cursor()
	assert.Equal(t, 1, i)
	assert.Equal(t, view(0, 1000), uc.ViewRange())

	assert.False(t, c.Undo(), "cannot undo past the first entry")
	i, _ = c.Cursor()
	assert.Equal(t, 1, i)

	assert.True(t, c.Redo())
	assert.Equal(t, view(0, 2000), uc.ViewRange())
	assert.True(t, c.Undo())

	uc.SetViewRange(view(0, 5000))
	c.AddCurrentState()
	sched.Advance(600 * time.Millisecond)

	i, max = c.Cursor()
	assert.Equal(t, 2, i)
	assert.Equal(t, 2, max)
	assert.False(t, c.Redo(), "redo tail was pruned")
	assert.Equal(t, view(0, 5000), uc.ViewRange())
}

func TestUndo_RestoresSelection(t *testing.T) {
	c, uc, sched := newTestController(t)

	c.AddCurrentState()
	sched.Advance(time.Second)

	uc.SetSelectionRange(&timegraph.Range{Start: 10, End: 20})
	c.AddCurrentState()
	sched.Advance(time.Second)

	require.True(t, c.Undo())
	assert.Nil(t, uc.SelectionRange())

	require.True(t, c.Redo())
	assert.Equal(t, &timegraph.Range{Start: 10, End: 20}, uc.SelectionRange())
}

func TestSelfFeedbackSuppressed(t *testing.T) {
	c, uc, sched := newTestController(t)

	var statesDuringRestore []State
	uc.OnChange(func(timegraph.ChangeKind) {
		statesDuringRestore = append(statesDuringRestore, c.State())
		c.AddCurrentState()
	})

	uc.SetViewRange(view(0, 100))
	sched.Advance(time.Second)
	uc.SetViewRange(view(0, 200))
	sched.Advance(time.Second)

	i, _ := c.Cursor()
	require.Equal(t, 2, i)

	statesDuringRestore = nil
	require.True(t, c.Undo())
	assert.Equal(t, []State{Restoring, Restoring}, statesDuringRestore)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Second)
	i, max := c.Cursor()
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, max)
}

func TestSnapshotsAreCopied(t *testing.T) {
	c, _, sched := newTestController(t)

	sel := &timegraph.Range{Start: 1, End: 2}
	c.Notify(Snapshot{Selection: sel})
	sel.Start = 50
	sched.Advance(time.Second)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), cur.Selection.Start)
}

func TestClear(t *testing.T) {
	c, uc, sched := newTestController(t)

	for k := int64(1); k <= 3; k++ {
		uc.SetViewRange(view(0, k))
		c.AddCurrentState()
		sched.Advance(time.Second)
	}

	c.Clear()
	i, max := c.Cursor()
	assert.Equal(t, 0, i)
	assert.Equal(t, 0, max)
	assert.False(t, c.Undo())
	assert.False(t, c.Redo())

	c.AddCurrentState()
	sched.Advance(time.Second)
	i, max = c.Cursor()
	assert.Equal(t, 1, i)
	assert.Equal(t, 1, max)
}

func TestFlushAndClose(t *testing.T) {
	c, _, sched := newTestController(t)

	c.Notify(Snapshot{View: view(0, 1)})
	c.Flush()
	i, _ := c.Cursor()
	assert.Equal(t, 1, i)

	c.Notify(Snapshot{View: view(0, 2)})
	c.Close()
	sched.Advance(time.Second)
	i, _ = c.Cursor()
	assert.Equal(t, 1, i)
	assert.Equal(t, Idle, c.State())
}

func TestWithQuietInterval(t *testing.T) {
	uc := timegraph.NewUnitController(100, 0)
	sched := debouncetest.New()
	c := NewController(uc, WithScheduler(sched), WithQuietInterval(50*time.Millisecond))

	c.AddCurrentState()
	sched.Advance(50 * time.Millisecond)
	i, _ := c.Cursor()
	assert.Equal(t, 1, i)
}
