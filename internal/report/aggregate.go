// Package report derives summaries from expenses and savings. It holds no
// state; every figure is recomputed from the rows passed in.
package report

import (
	"sort"

	"pennywise/internal/classify"
	"pennywise/internal/core"
)

// Group is one bucket of a breakdown.
type Group struct {
	Key     string
	Amount  int64
	Count   int
	Percent int64
}

// Summary is the aggregate view of a date range.
type Summary struct {
	ExpenseTotal int64
	SavingsTotal int64
	Net          int64
	ExpenseCount int
	ByCategory   []Group
	ByTier       []Group
	BySource     []Group
}

// Summarize builds a Summary. Savings are grouped by source; negative goal
// allocations stay in the totals.
func Summarize(expenses []core.Expense, savings []core.Saving) Summary {
	s := Summary{
		ByCategory: GroupExpenses(expenses, func(e core.Expense) string { return e.Category }),
		ByTier:     GroupExpenses(expenses, func(e core.Expense) string { return string(e.Tier) }),
		BySource:   GroupSavings(savings),
	}
	for _, e := range expenses {
		s.ExpenseTotal += e.Amount.Minor
	}
	for _, sv := range savings {
		s.SavingsTotal += sv.Amount.Minor
	}
	s.ExpenseCount = len(expenses)
	s.Net = s.SavingsTotal - s.ExpenseTotal
	return s
}

// GroupExpenses buckets expenses by key, sorted by amount descending.
func GroupExpenses(expenses []core.Expense, key func(core.Expense) string) []Group {
	idx := map[string]int{}
	var groups []Group
	var total int64
	for _, e := range expenses {
		k := key(e)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Amount += e.Amount.Minor
		groups[i].Count++
		total += e.Amount.Minor
	}
	return finish(groups, total)
}

// GroupSavings buckets savings by source.
func GroupSavings(savings []core.Saving) []Group {
	idx := map[string]int{}
	var groups []Group
	var total int64
	for _, s := range savings {
		k := string(s.Source)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Amount += s.Amount.Minor
		groups[i].Count++
		total += s.Amount.Minor
	}
	return finish(groups, total)
}

func finish(groups []Group, total int64) []Group {
	for i := range groups {
		groups[i].Percent = core.Percent(groups[i].Amount, total)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Amount != groups[j].Amount {
			return groups[i].Amount > groups[j].Amount
		}
		return groups[i].Key < groups[j].Key
	})
	if groups == nil {
		return []Group{}
	}
	return groups
}

// PercentChange returns round(100 × (current − previous) / previous), or 0
// when previous is 0.
func PercentChange(current, previous int64) int64 {
	if previous == 0 {
		return 0
	}
	return core.RoundDiv(100*(current-previous), previous)
}

// SpendingSummary converts a Summary into the input of the tip generator.
func (s Summary) SpendingSummary() classify.SpendingSummary {
	out := classify.SpendingSummary{Total: s.ExpenseTotal}
	for _, g := range s.ByTier {
		switch core.Tier(g.Key) {
		case core.Avoidable:
			out.Avoidable = g.Amount
		case core.Unnecessary:
			out.Unnecessary = g.Amount
		}
	}
	for _, g := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, classify.CategorySpend{Category: g.Key, Amount: g.Amount})
	}
	return out
}
