// Package utils provides small shared helpers: the compact time-period
// grammar used across the query pipeline and text truncation.
package utils

import "strings"

// DefaultPeriod is the time window assumed when a query carries none.
const DefaultPeriod = "3d"

// DefaultPeriodDays is the day window used when a period string cannot be
// parsed.
const DefaultPeriodDays = 3

// PeriodDays converts a period string in the "<integer><h|d>" grammar to
// whole days for providers that only accept day granularity. Hour windows
// map to n/24+1 days so a partial day still covers today; unparseable input
// falls back to DefaultPeriodDays.
func PeriodDays(period string) int {
	n := 0
	for _, r := range period {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	switch {
	case n == 0:
		return DefaultPeriodDays
	case strings.HasSuffix(period, "h"):
		d := n/24 + 1
		if d < 1 {
			d = 1
		}
		return d
	case strings.HasSuffix(period, "d"):
		return n
	default:
		return DefaultPeriodDays
	}
}

// Truncate shortens s to at most n characters, appending an ellipsis marker
// when anything was cut.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
