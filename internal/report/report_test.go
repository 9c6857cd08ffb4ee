package report

import (
	"testing"
	"time"

	"pennywise/internal/core"
)

func exp(cat string, tier core.Tier, minor int64) core.Expense {
	return core.Expense{Category: cat, Tier: tier, Amount: core.NewMoney(minor)}
}

func TestGroupExpensesPercentages(t *testing.T) {
	expenses := []core.Expense{
		exp("groceries", core.Necessary, 100),
		exp("shopping", core.Avoidable, 100),
		exp("travel", core.Unnecessary, 100),
		exp("groceries", core.Necessary, 50),
	}
	groups := GroupExpenses(expenses, func(e core.Expense) string { return e.Category })
	if len(groups) != 3 || groups[0].Key != "groceries" || groups[0].Count != 2 {
		t.Fatalf("unexpected groups %+v", groups)
	}
	// Ties are ordered by key.
	if groups[1].Key != "shopping" || groups[2].Key != "travel" {
		t.Fatalf("unexpected order %+v", groups)
	}
	var sum int64
	for _, g := range groups {
		sum += g.Percent
	}
	if sum < 100-int64(len(groups)) || sum > 100+int64(len(groups)) {
		t.Fatalf("percentages sum to %d", sum)
	}
	if groups[0].Percent != 43 || groups[1].Percent != 29 {
		t.Fatalf("unexpected percentages %+v", groups)
	}
}

func TestGroupExpensesEmpty(t *testing.T) {
	groups := GroupExpenses(nil, func(e core.Expense) string { return e.Category })
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty slice, got %#v", groups)
	}
}

func TestSummarize(t *testing.T) {
	expenses := []core.Expense{
		exp("groceries", core.Necessary, 600_00),
		exp("shopping", core.Avoidable, 300_00),
		exp("travel", core.Unnecessary, 100_00),
	}
	savings := []core.Saving{
		{Source: core.SourceManual, Amount: core.NewMoney(500_00)},
		{Source: core.SourceGoalAllocation, Amount: core.NewMoney(-200_00)},
	}
	s := Summarize(expenses, savings)
	if s.ExpenseTotal != 1000_00 || s.SavingsTotal != 300_00 || s.Net != -700_00 || s.ExpenseCount != 3 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.ByTier[0].Key != string(core.Necessary) || s.ByTier[0].Percent != 60 {
		t.Fatalf("unexpected tiers %+v", s.ByTier)
	}
	ss := s.SpendingSummary()
	if ss.Avoidable != 300_00 || ss.Unnecessary != 100_00 || len(ss.ByCategory) != 3 {
		t.Fatalf("unexpected spending summary %+v", ss)
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct{ cur, prev, want int64 }{
		{150, 100, 50},
		{50, 100, -50},
		{100, 0, 0},
		{0, 0, 0},
		{1, 3, -67},
	}
	for _, tc := range cases {
		if got := PercentChange(tc.cur, tc.prev); got != tc.want {
			t.Errorf("PercentChange(%d, %d) = %d, want %d", tc.cur, tc.prev, got, tc.want)
		}
	}
}

func TestPredictAverage(t *testing.T) {
	history := []MonthTotals{
		{Month: "2023-12", Total: 999, ByCategory: map[string]int64{"x": 999}},
		{Month: "2024-01", Total: 100, ByCategory: map[string]int64{"food": 100}},
		{Month: "2024-02", Total: 200, ByCategory: map[string]int64{"food": 150, "fun": 50}},
		{Month: "2024-03", Total: 301, ByCategory: map[string]int64{"food": 301}},
	}
	f, err := Predict("2024-04", history, MonthTotals{}, time.Now(), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if f.Method != MethodAverage || f.Predicted != 200 {
		t.Fatalf("unexpected forecast %+v", f)
	}
	if f.Breakdown["food"] != 184 || f.Breakdown["fun"] != 17 || f.Breakdown["x"] != 0 {
		t.Fatalf("unexpected breakdown %+v", f.Breakdown)
	}
}

func TestPredictProjection(t *testing.T) {
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	current := MonthTotals{Month: "2024-04", Total: 1000_00, ByCategory: map[string]int64{"food": 1000_00}}
	f, err := Predict("2024-04", nil, current, now, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if f.Method != MethodProjection || f.Predicted != 3000_00 || f.Breakdown["food"] != 3000_00 {
		t.Fatalf("unexpected forecast %+v", f)
	}

	future, err := Predict("2024-05", nil, MonthTotals{}, now, time.UTC)
	if err != nil || future.Predicted != 0 {
		t.Fatalf("future month without history should be zero: %+v %v", future, err)
	}

	if _, err := Predict("bogus", nil, MonthTotals{}, now, time.UTC); err == nil {
		t.Fatal("expected month key error")
	}
}
