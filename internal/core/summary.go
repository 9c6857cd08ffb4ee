package core

import (
	"fmt"
	"time"
)

// Clock supplies the current time. Engines take a Clock so that streak and
// week-window calculations stay deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// MonthKey formats a year and month as "YYYY-MM".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseMonthKey parses "YYYY-MM".
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, fmt.Errorf("parse month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// MonthBounds returns [first day of month, first day of next month) in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DayKey formats t's calendar day in loc as "YYYY-MM-DD".
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
