package target

import (
	"testing"
	"time"

	"pennywise/internal/core"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func expense(tier core.Tier, minor int64, at time.Time) core.Expense {
	return core.Expense{Tier: tier, Amount: core.NewMoney(minor), OccurredAt: at}
}

func TestWeekOf(t *testing.T) {
	// Wednesday 2024-03-06 10:00 IST
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, kolkata)
	w := WeekOf(now, kolkata)
	if got := w.Start.Format("2006-01-02 Mon"); got != "2024-03-04 Mon" {
		t.Fatalf("start = %s", got)
	}
	if got := w.LastDay().Format("2006-01-02 Mon"); got != "2024-03-10 Sun" {
		t.Fatalf("last day = %s", got)
	}

	// Sunday late evening still belongs to the same week.
	sunday := time.Date(2024, 3, 10, 23, 59, 0, 0, kolkata)
	if WeekOf(sunday, kolkata) != w {
		t.Fatal("sunday should map to the same week")
	}
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, kolkata)
	if WeekOf(monday, kolkata).Start != w.End {
		t.Fatal("monday should open the next week")
	}
	if w.Previous().End != w.Start {
		t.Fatal("previous week should end where this one starts")
	}
}

func TestComputeTarget(t *testing.T) {
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, kolkata)
	c := NewCalculator(DefaultTargetPercent, kolkata)
	expenses := []core.Expense{
		expense(core.Avoidable, 200_00, now.Add(-time.Hour)),
		expense(core.Unnecessary, 100_00, now.Add(-24*time.Hour)),
		expense(core.Necessary, 900_00, now),
		expense(core.Avoidable, 5000_00, now.AddDate(0, 0, -7)),
	}
	s := c.Compute(now, expenses)
	if s.Avoidable != 200_00 || s.Unnecessary != 100_00 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.Target != 15000 {
		t.Fatalf("target = %d, want 15000", s.Target)
	}
}

func TestTargetPercentIsConfigurable(t *testing.T) {
	c := NewCalculator(25, time.UTC)
	if got := c.Target(300, 101); got != 100 {
		t.Fatalf("target = %d, want 100", got)
	}
	if got := NewCalculator(0, nil).Target(3, 0); got != 2 {
		t.Fatalf("default percent should round half away from zero, got %d", got)
	}
}

func TestHistory(t *testing.T) {
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	c := NewCalculator(DefaultTargetPercent, time.UTC)
	lastWeek := now.AddDate(0, 0, -7)
	expenses := []core.Expense{
		expense(core.Avoidable, 400_00, now),
		expense(core.Unnecessary, 300_00, lastWeek),
		expense(core.Avoidable, 100_00, lastWeek),
	}
	savings := []core.Saving{
		{Amount: core.NewMoney(50_00), OccurredAt: now},
		{Amount: core.NewMoney(120_00), OccurredAt: lastWeek},
		{Amount: core.NewMoney(-20_00), OccurredAt: lastWeek},
	}
	h := c.History(now, 3, expenses, savings)
	if len(h) != 3 {
		t.Fatalf("len = %d", len(h))
	}
	if !h[0].Week.Start.Before(h[1].Week.Start) || !h[1].Week.Start.Before(h[2].Week.Start) {
		t.Fatal("history should be oldest first")
	}
	if h[0].Target != 0 || h[0].Actual != 0 || h[0].Current {
		t.Fatalf("oldest week should be empty: %+v", h[0])
	}
	if h[1].Target != 400_00 || h[1].Actual != 100_00 {
		t.Fatalf("last week should publish its full total: %+v", h[1])
	}
	if !h[2].Current || h[2].Target != 200_00 || h[2].Actual != 50_00 {
		t.Fatalf("current week should be discounted: %+v", h[2])
	}

	from, to := c.Span(now, 3)
	if !from.Equal(h[0].Week.Start) || !to.Equal(h[2].Week.End) {
		t.Fatalf("span %v..%v does not cover history", from, to)
	}
}

func TestAwardCoins(t *testing.T) {
	cases := []struct {
		actual, target, want int64
	}{
		{75_00, 150_00, 50},
		{150_00, 150_00, 100},
		{900_00, 150_00, 100},
		{1, 3, 33},
		{2, 3, 67},
		{0, 150_00, 0},
		{-10, 150_00, 0},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := AwardCoins(tc.actual, tc.target); got != tc.want {
			t.Errorf("AwardCoins(%d, %d) = %d, want %d", tc.actual, tc.target, got, tc.want)
		}
	}
}
