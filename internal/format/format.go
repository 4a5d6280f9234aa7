// Package format holds display formatting helpers for wearable metrics.
package format

import (
	"fmt"
	"strings"
)

// Duration renders a duration in whole seconds as a compact h/m/s string,
// e.g. 27120 -> "7h32m".
func Duration(seconds int) string {
	if seconds < 0 {
		return "-" + Duration(-seconds)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// Thousands renders an integer with comma grouping, e.g. 1234567 -> "1,234,567".
func Thousands(n int) string {
	if n < 0 {
		return "-" + Thousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	return strings.Join(groups, ",")
}

// Score renders a 0-100 wellness score with a qualitative label.
func Score(v int) string {
	var label string
	switch {
	case v >= 85:
		label = "excellent"
	case v >= 70:
		label = "good"
	case v >= 60:
		label = "fair"
	default:
		label = "pay attention"
	}
	return fmt.Sprintf("%d (%s)", v, label)
}

// Delta renders a signed temperature or score delta with two decimals,
// e.g. 0.3 -> "+0.30".
func Delta(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// DateRange renders an inclusive date range, e.g. "2026-08-23..2026-08-30".
func DateRange(start, end string) string {
	if start == "" && end == "" {
		return "all time"
	}
	return start + ".." + end
}
