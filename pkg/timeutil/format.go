// Package timeutil formats trace timestamps and spans for display.
//
// All timestamps in tracerange are Unix nanoseconds (int64).
package timeutil

import (
	"fmt"
	"time"
)

// FromNano converts a Unix nanosecond timestamp to time.Time.
func FromNano(ns int64) time.Time {
	return time.Unix(0, ns)
}

// FormatTimestamp formats a Unix nanosecond timestamp with date and
// nanosecond precision. Format: "2006-01-02 15:04:05.000000000"
func FormatTimestamp(ns int64) string {
	return FromNano(ns).UTC().Format("2006-01-02 15:04:05.000000000")
}

// FormatSpan formats a nanosecond length with the largest unit that
// keeps it readable. Examples: "850ns", "12.5µs", "3.2ms", "1.25s",
// "2m 15.3s".
func FormatSpan(ns int64) string {
	neg := ""
	if ns < 0 {
		neg = "-"
		ns = -ns
	}
	switch {
	case ns < int64(time.Microsecond):
		return fmt.Sprintf("%s%dns", neg, ns)
	case ns < int64(time.Millisecond):
		return fmt.Sprintf("%s%.1fµs", neg, float64(ns)/1e3)
	case ns < int64(time.Second):
		return fmt.Sprintf("%s%.1fms", neg, float64(ns)/1e6)
	case ns < int64(time.Minute):
		return fmt.Sprintf("%s%.2fs", neg, float64(ns)/1e9)
	}
	minutes := ns / int64(time.Minute)
	remaining := float64(ns%int64(time.Minute)) / 1e9
	return fmt.Sprintf("%s%dm %.1fs", neg, minutes, remaining)
}

// RelativeTime returns a human-readable relative time string.
// Examples: "just now", "5s ago", "2m ago", "1h ago"
func RelativeTime(ns int64) string {
	diff := time.Since(FromNano(ns))

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
