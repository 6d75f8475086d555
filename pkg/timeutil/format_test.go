package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSpan(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0ns"},
		{850, "850ns"},
		{12_500, "12.5µs"},
		{3_200_000, "3.2ms"},
		{1_250_000_000, "1.25s"},
		{int64(2*time.Minute + 15300*time.Millisecond), "2m 15.3s"},
		{-850, "-850ns"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSpan(tc.in), "FormatSpan(%d)", tc.in)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ns := time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.UTC).UnixNano()
	assert.Equal(t, "2024-03-01 12:30:45.123456789", FormatTimestamp(ns))
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", RelativeTime(now.UnixNano()))
	assert.Equal(t, "2m ago", RelativeTime(now.Add(-150*time.Second).UnixNano()))
	assert.Equal(t, "3d ago", RelativeTime(now.Add(-73*time.Hour).UnixNano()))
}
