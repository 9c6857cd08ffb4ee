// Package sheets exports ledger rows to a spreadsheet.
package sheets

import (
	"context"
	"time"

	"pennywise/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter appends one row per ledger entry and returns a reference
	// to the written range.
	LedgerWriter interface {
		AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
		AppendSaving(ctx context.Context, s core.Saving) (rowRef string, err error)
	}
)

// Header is the column layout of the ledger sheet.
var Header = []any{"Date", "Kind", "Name", "Category", "Tier", "Amount", "Method", "Notes"}

const (
	KindExpense = "expense"
	KindSaving  = "saving"
)

// ExpenseRow renders an expense in the ledger layout. The date is the
// calendar day in loc; the amount is a major-unit decimal.
func ExpenseRow(e core.Expense, loc *time.Location) []any {
	return []any{
		core.DayKey(e.OccurredAt, orUTC(loc)),
		KindExpense,
		e.Name,
		e.Category,
		string(e.Tier),
		e.Amount.Major(),
		string(e.PaymentMode),
		e.Notes,
	}
}

// SavingRow renders a saving in the ledger layout. Savings have no name or
// tier; the source goes in the method column.
func SavingRow(s core.Saving, loc *time.Location) []any {
	return []any{
		core.DayKey(s.OccurredAt, orUTC(loc)),
		KindSaving,
		"",
		"",
		"",
		s.Amount.Major(),
		string(s.Source),
		s.Notes,
	}
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
