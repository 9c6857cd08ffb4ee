package sheets

import (
	"testing"
	"time"

	"pennywise/internal/core"
)

func TestExpenseRow(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	e := core.Expense{
		Name:        "Dinner",
		Amount:      core.NewMoney(1234_50),
		OccurredAt:  time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC), // 01:30 next day in IST
		Tier:        core.Avoidable,
		Category:    core.CategoryFoodAndDrinks,
		PaymentMode: core.PaymentUPI,
	}
	row := ExpenseRow(e, ist)
	if len(row) != len(Header) {
		t.Fatalf("row has %d columns, header %d", len(row), len(Header))
	}
	if row[0] != "2024-03-06" {
		t.Errorf("date = %v", row[0])
	}
	if row[5] != "1234.50" {
		t.Errorf("amount = %v", row[5])
	}
	if row[6] != "upi" {
		t.Errorf("method = %v", row[6])
	}
}

func TestSavingRow(t *testing.T) {
	s := core.Saving{
		Amount:     core.NewMoney(-500_00),
		OccurredAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Source:     core.SourceGoalAllocation,
	}
	row := SavingRow(s, nil)
	if row[1] != KindSaving || row[5] != "-500.00" || row[6] != "goal_allocation" {
		t.Fatalf("unexpected row %v", row)
	}
}
