package timegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnitController(t *testing.T) {
	uc := NewUnitController(1000, 100)

	assert.Equal(t, int64(100), uc.Offset())
	assert.Equal(t, int64(1000), uc.AbsoluteRange())
	assert.Equal(t, Range{Start: 0, End: 1000}, uc.ViewRange())
	assert.Nil(t, uc.SelectionRange())
}

func TestRangeOrdered(t *testing.T) {
	assert.Equal(t, Range{Start: 2, End: 5}, Range{Start: 5, End: 2}.Ordered())
	assert.Equal(t, Range{Start: 2, End: 5}, Range{Start: 2, End: 5}.Ordered())
	assert.Equal(t, int64(3), Range{Start: 5, End: 2}.Length())
}

func TestSelectionIsCopied(t *testing.T) {
	uc := NewUnitController(1000, 0)
	sel := &Range{Start: 10, End: 20}
	uc.SetSelectionRange(sel)

	sel.Start = 999
	got := uc.SelectionRange()
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.Start)

	got.End = 0
	assert.Equal(t, int64(20), uc.SelectionRange().End)

	uc.SetSelectionRange(nil)
	assert.Nil(t, uc.SelectionRange())
}

func TestOnChange(t *testing.T) {
	uc := NewUnitController(1000, 0)

	var kinds []ChangeKind
	unsubscribe := uc.OnChange(func(k ChangeKind) { kinds = append(kinds, k) })

	uc.SetViewRange(Range{Start: 1, End: 2})
	uc.SetSelectionRange(&Range{Start: 1, End: 1})
	assert.Equal(t, []ChangeKind{ViewChanged, SelectionChanged}, kinds)

	unsubscribe()
	uc.SetViewRange(Range{Start: 3, End: 4})
	assert.Len(t, kinds, 2)
}

func TestOnChange_ListenerMayWrite(t *testing.T) {
	uc := NewUnitController(1000, 0)

	calls := 0
	uc.OnChange(func(k ChangeKind) {
		calls++
		if k == ViewChanged {
			uc.SetSelectionRange(nil)
		}
	})

	uc.SetViewRange(Range{Start: 0, End: 10})
	assert.Equal(t, 2, calls)
}

func TestPanView(t *testing.T) {
	uc := NewUnitController(1000, 0)
	uc.SetViewRange(Range{Start: 100, End: 300})

	uc.PanView(50)
	assert.Equal(t, Range{Start: 150, End: 350}, uc.ViewRange())

	uc.PanView(-500)
	assert.Equal(t, Range{Start: 0, End: 200}, uc.ViewRange())

	uc.PanView(5000)
	assert.Equal(t, Range{Start: 800, End: 1000}, uc.ViewRange())
}

func TestZoomView(t *testing.T) {
	uc := NewUnitController(1000, 0)
	uc.SetViewRange(Range{Start: 400, End: 600})

	uc.ZoomView(1, 2)
	assert.Equal(t, Range{Start: 450, End: 550}, uc.ViewRange())

	uc.ZoomView(4, 1)
	assert.Equal(t, Range{Start: 300, End: 700}, uc.ViewRange())

	uc.ZoomView(10, 1)
	assert.Equal(t, Range{Start: 0, End: 1000}, uc.ViewRange())

	uc.ZoomView(0, 1)
	assert.Equal(t, Range{Start: 0, End: 1000}, uc.ViewRange(), "invalid factor is ignored")
}

func TestData(t *testing.T) {
	uc := NewUnitController(1000, 100)
	uc.SetSelectionRange(&Range{Start: 5, End: 7})

	d := uc.Data("exp-1")
	assert.Equal(t, "exp-1", d.ID)
	assert.Equal(t, int64(100), d.Offset)
	assert.Equal(t, int64(1000), d.AbsoluteRange)
	assert.Equal(t, &Range{Start: 5, End: 7}, d.SelectionRange)
	assert.Equal(t, Range{Start: 0, End: 1000}, d.ViewRange)
}
