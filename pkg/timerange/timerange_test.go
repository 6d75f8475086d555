package timerange

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValue(t *testing.T) {
	var r TimeRange

	assert.Equal(t, int64(0), r.Start())
	assert.Equal(t, int64(0), r.End())
	assert.Equal(t, int64(0), r.Duration())
	_, ok := r.Offset()
	assert.False(t, ok)
}

func TestNewWithOffset_Scenario(t *testing.T) {
	r := NewWithOffset(1000, 2000, 500)

	assert.Equal(t, int64(1500), r.Start())
	assert.Equal(t, int64(2500), r.End())
	assert.Equal(t, int64(1000), r.Duration())
	assert.Equal(t, Serialized{Start: "1000", End: "2000", Offset: "500"}, r.Serialize())
}

func TestNew_NoOffset(t *testing.T) {
	r := New(10, 4)

	assert.Equal(t, int64(10), r.Start())
	assert.Equal(t, int64(4), r.End())
	assert.Equal(t, int64(-6), r.Duration(), "reversed bounds are not reordered")
	assert.Equal(t, Serialized{Start: "10", End: "4"}, r.Serialize())
}

func TestDuration_IndependentOfOffset(t *testing.T) {
	for _, offset := range []int64{0, 1, -700, 1 << 40, math.MinInt32} {
		r := NewWithOffset(250, 900, offset)
		assert.Equal(t, int64(650), r.Duration(), "offset %d", offset)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	cases := []TimeRange{
		{},
		New(1, 2),
		New(-5, 5),
		NewWithOffset(0, 0, 0),
		NewWithOffset(1000, 2000, 500),
		New(math.MaxInt64, math.MinInt64),
		NewWithOffset(1<<53+1, 1<<62, 9007199254740993),
		NewWithOffset(math.MinInt64, math.MaxInt64, -1),
	}

	for _, want := range cases {
		got, err := Parse(want.Serialize())
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want.Start(), got.Start())
		assert.Equal(t, want.End(), got.End())
		wo, wok := want.Offset()
		goff, gok := got.Offset()
		assert.Equal(t, wo, goff)
		assert.Equal(t, wok, gok)
	}
}

func TestParse_EmptyOffsetIsAbsent(t *testing.T) {
	r, err := Parse(Serialized{Start: "3", End: "9"})
	require.NoError(t, err)

	_, ok := r.Offset()
	assert.False(t, ok)
}

func TestParse_Malformed(t *testing.T) {
	cases := []Serialized{
		{Start: "", End: "1"},
		{Start: "1", End: "x"},
		{Start: "1", End: "2", Offset: "1.5"},
		{Start: "99999999999999999999", End: "0"},
	}
	for _, s := range cases {
		_, err := Parse(s)
		assert.True(t, errors.Is(err, ErrMalformed), "input %+v", s)
	}
}

func TestJSON(t *testing.T) {
	r := NewWithOffset(1000, 2000, 500)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"1000","end":"2000","offset":"500"}`, string(b))

	var back TimeRange
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)

	b, err = json.Marshal(New(1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"1","end":"2"}`, string(b))

	err = json.Unmarshal([]byte(`{"start":"a","end":"2"}`), &back)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestString(t *testing.T) {
	assert.Equal(t, "[1500, 2500]", NewWithOffset(1000, 2000, 500).String())
}
