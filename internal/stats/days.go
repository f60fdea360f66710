// ABOUTME: Calendar-day helpers shared by the aggregators.
// ABOUTME: Day arithmetic is done on civil dates so DST shifts don't skew counts.
package stats

import "time"

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return civilDay(a, loc) == civilDay(b, loc)
}

// civilDay numbers t's calendar date in loc as days since the epoch.
func civilDay(t time.Time, loc *time.Location) int64 {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}
