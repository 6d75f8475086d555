package tui

import "strings"

// ────────────────────────────────────────────────────────────
// Bar geometry
// ────────────────────────────────────────────────────────────

// column maps an offset-relative position to a column in [0, width).
// Positions outside [0, absoluteRange] are clamped.
func column(pos, absoluteRange int64, width int) int {
	if width <= 1 || absoluteRange <= 0 {
		return 0
	}
	frac := float64(pos) / float64(absoluteRange)
	return clamp(int(frac*float64(width-1)+0.5), 0, width-1)
}

// renderBar draws a track of width columns with [from, to] filled.
func renderBar(from, to int64, absoluteRange int64, width int, fill string) string {
	if width <= 0 {
		return ""
	}
	if from > to {
		from, to = to, from
	}
	lo := column(from, absoluteRange, width)
	hi := column(to, absoluteRange, width)

	var b strings.Builder
	b.WriteString(barTrackStyle.Render(strings.Repeat("─", lo)))
	b.WriteString(fill)
	b.WriteString(strings.Repeat(fill, hi-lo))
	b.WriteString(barTrackStyle.Render(strings.Repeat("─", width-hi-1)))
	return b.String()
}

// ────────────────────────────────────────────────────────────
// String helpers
// ────────────────────────────────────────────────────────────

// truncate cuts a string to maxLen and appends "..." if truncated.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// shortID returns first n characters of an ID string.
func shortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// clamp restricts val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
