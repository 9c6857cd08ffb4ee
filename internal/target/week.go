// Package target derives weekly savings targets from classified expenses.
package target

import "time"

// Week is a Monday-aligned window. End is the following Monday (exclusive).
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the week containing t, with boundaries at local midnight in loc.
func WeekOf(t time.Time, loc *time.Location) Week {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
	return Week{Start: start, End: start.AddDate(0, 0, 7)}
}

// Contains reports whether t falls inside [Start, End).
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// LastDay returns the Sunday that closes the week.
func (w Week) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

// Previous returns the week before w.
func (w Week) Previous() Week {
	start := w.Start.AddDate(0, 0, -7)
	return Week{Start: start, End: w.Start}
}

// Key identifies the week as its Monday, e.g. "2024-03-04".
func (w Week) Key() string {
	return w.Start.Format("2006-01-02")
}
