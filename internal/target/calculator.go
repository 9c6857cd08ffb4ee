package target

import (
	"time"

	"pennywise/internal/core"
)

// DefaultTargetPercent is the share of avoidable and unnecessary spending
// recommended as the current week's savings target.
const DefaultTargetPercent int64 = 50

// Summary is the tier breakdown and recommended target for one week.
type Summary struct {
	Week        Week
	Avoidable   int64
	Unnecessary int64
	Target      int64
}

// Record is one row of the weekly history view.
type Record struct {
	Week    Week
	Target  int64
	Actual  int64
	Current bool
}

type Calculator struct {
	Percent  int64
	Location *time.Location
}

func NewCalculator(percent int64, loc *time.Location) Calculator {
	if percent <= 0 {
		percent = DefaultTargetPercent
	}
	if loc == nil {
		loc = time.UTC
	}
	return Calculator{Percent: percent, Location: loc}
}

// Target applies the configured percentage to the discretionary total.
func (c Calculator) Target(avoidable, unnecessary int64) int64 {
	return core.ScalePercent(avoidable+unnecessary, c.percent())
}

// Compute sums the expenses falling in the week containing now.
func (c Calculator) Compute(now time.Time, expenses []core.Expense) Summary {
	w := WeekOf(now, c.Location)
	s := Summary{Week: w}
	s.Avoidable, s.Unnecessary = tierTotals(w, expenses)
	s.Target = c.Target(s.Avoidable, s.Unnecessary)
	return s
}

// Span returns the time range covering the last n weeks up to and including
// the current one. Callers use it to load the rows History needs.
func (c Calculator) Span(now time.Time, n int) (time.Time, time.Time) {
	cur := WeekOf(now, c.Location)
	if n < 1 {
		n = 1
	}
	return cur.Start.AddDate(0, 0, -7*(n-1)), cur.End
}

// History returns n weekly records ordered oldest to newest. Finished weeks
// publish their full discretionary total as target; the current week shows
// the discounted projection.
func (c Calculator) History(now time.Time, n int, expenses []core.Expense, savings []core.Saving) []Record {
	if n < 1 {
		n = 1
	}
	cur := WeekOf(now, c.Location)
	out := make([]Record, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := cur.Start.AddDate(0, 0, -7*i)
		w := Week{Start: start, End: start.AddDate(0, 0, 7)}
		avoidable, unnecessary := tierTotals(w, expenses)
		r := Record{Week: w, Actual: savingsTotal(w, savings), Current: i == 0}
		if r.Current {
			r.Target = c.Target(avoidable, unnecessary)
		} else {
			r.Target = avoidable + unnecessary
		}
		out = append(out, r)
	}
	return out
}

func (c Calculator) percent() int64 {
	if c.Percent <= 0 {
		return DefaultTargetPercent
	}
	return c.Percent
}

func tierTotals(w Week, expenses []core.Expense) (avoidable, unnecessary int64) {
	for _, e := range expenses {
		if !w.Contains(e.OccurredAt) {
			continue
		}
		switch e.Tier {
		case core.Avoidable:
			avoidable += e.Amount.Minor
		case core.Unnecessary:
			unnecessary += e.Amount.Minor
		}
	}
	return avoidable, unnecessary
}

func savingsTotal(w Week, savings []core.Saving) int64 {
	var total int64
	for _, s := range savings {
		if w.Contains(s.OccurredAt) {
			total += s.Amount.Minor
		}
	}
	return total
}

// AwardCoins returns round(100 × min(actual/target, 1)). A non-positive
// target or actual yields 0.
func AwardCoins(actual, target int64) int64 {
	if target <= 0 || actual <= 0 {
		return 0
	}
	if actual > target {
		actual = target
	}
	return core.Percent(actual, target)
}
