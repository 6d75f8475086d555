package rangeinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
)

func experiment() timegraph.ExperimentData {
	return timegraph.ExperimentData{
		ID:             "exp",
		ViewRange:      timegraph.Range{Start: 0, End: 1000},
		SelectionRange: &timegraph.Range{Start: 300, End: 200},
		Offset:         100,
		AbsoluteRange:  1000,
	}
}

func TestForm_ViewIdle(t *testing.T) {
	var f Form
	v := f.View(experiment())

	assert.Equal(t, FormView{
		ViewStart: "100", ViewEnd: "1100",
		SelectionStart: "300", SelectionEnd: "400",
		StartValid: true, EndValid: true,
	}, v)
}

func TestForm_SetField(t *testing.T) {
	var f Form
	require.NoError(t, f.SetField(FieldStart, " 250 "))
	assert.True(t, f.Inputting())

	v, ok := f.Value(FieldStart)
	assert.True(t, ok)
	assert.Equal(t, int64(250), v)

	require.NoError(t, f.SetField(FieldStart, ""))
	_, ok = f.Value(FieldStart)
	assert.False(t, ok)

	assert.Error(t, f.SetField(FieldEnd, "12a"))
}

func TestForm_InvalidFieldPanics(t *testing.T) {
	var f Form
	assert.Panics(t, func() { _ = f.SetField(Field(2), "1") })
	assert.Panics(t, func() { f.Value(Field(-1)) })
}

func TestForm_SubmitSuccessResets(t *testing.T) {
	var f Form
	require.NoError(t, f.SetField(FieldEnd, "900"))

	r, err := f.Submit(experiment())
	require.NoError(t, err)
	assert.Equal(t, timegraph.Range{Start: 200, End: 800}, r)
	assert.False(t, f.Inputting())
}

func TestForm_SubmitNothingReverts(t *testing.T) {
	var f Form
	require.NoError(t, f.SetField(FieldStart, ""))

	_, err := f.Submit(experiment())
	assert.ErrorIs(t, err, ErrNoChange)
	assert.False(t, f.Inputting())
}

func TestForm_SubmitBoundsErrorFlagsSides(t *testing.T) {
	var f Form
	require.NoError(t, f.SetField(FieldStart, "50"))
	require.NoError(t, f.SetField(FieldEnd, "500"))

	_, err := f.Submit(experiment())
	var bounds *BoundsError
	require.ErrorAs(t, err, &bounds)

	v := f.View(experiment())
	assert.True(t, v.Inputting)
	assert.False(t, v.StartValid)
	assert.True(t, v.EndValid)
	assert.Equal(t, "50", v.SelectionStart)
	assert.Equal(t, "500", v.SelectionEnd)

	f.Cancel()
	v = f.View(experiment())
	assert.True(t, v.StartValid)
	assert.Equal(t, "300", v.SelectionStart)
}
