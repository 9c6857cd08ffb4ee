package memory

import (
	"context"
	"testing"
	"time"

	"pennywise/internal/core"
)

func TestMemoryStoreAppend(t *testing.T) {
	s := New(time.UTC)
	at := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	ref, err := s.AppendExpense(context.Background(), core.Expense{
		Name:        "Metro card",
		Amount:      core.NewMoney(200_00),
		OccurredAt:  at,
		Tier:        core.Necessary,
		Category:    core.CategoryTransportation,
		PaymentMode: core.PaymentCard,
	})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	ref, err = s.AppendSaving(context.Background(), core.Saving{
		Amount:     core.NewMoney(50_00),
		OccurredAt: at,
		Source:     core.SourcePiggyBank,
	})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[0][2] != "Metro card" || rows[1][6] != "piggy_bank" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := New(nil)
	if _, err := s.AppendExpense(context.Background(), core.Expense{Name: "x"}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(s.Rows()) != 0 {
		t.Fatal("invalid rows must not be stored")
	}
}
