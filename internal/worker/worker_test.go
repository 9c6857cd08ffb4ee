package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/sheets/memory"
)

type fakeLedger struct {
	expenses map[int64]core.Expense
	savings  map[int64]core.Saving
}

func (f *fakeLedger) GetExpense(_ context.Context, userID, id int64) (core.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || e.UserID != userID {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (f *fakeLedger) GetSaving(_ context.Context, userID, id int64) (core.Saving, error) {
	s, ok := f.savings[id]
	if !ok || s.UserID != userID {
		return core.Saving{}, core.ErrNotFound
	}
	return s, nil
}

type fakeRefresher struct {
	months []string
	err    error
}

func (f *fakeRefresher) Refresh(_ context.Context, userID int64, month string) (core.Prediction, error) {
	f.months = append(f.months, month)
	return core.Prediction{UserID: userID, Month: month}, f.err
}

func (f *fakeRefresher) MonthOf(t time.Time) string {
	return core.MonthKey(t.Year(), t.Month())
}

type failingWriter struct{}

func (failingWriter) AppendExpense(context.Context, core.Expense) (string, error) {
	return "", errors.New("quota exceeded")
}

func (failingWriter) AppendSaving(context.Context, core.Saving) (string, error) {
	return "", errors.New("quota exceeded")
}

func fixture() *fakeLedger {
	at := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	return &fakeLedger{
		expenses: map[int64]core.Expense{
			1: {ID: 1, UserID: 7, Name: "Rent", Amount: core.NewMoney(15000_00), OccurredAt: at,
				Tier: core.Necessary, Category: core.CategoryHousing, PaymentMode: core.PaymentBankTransfer},
		},
		savings: map[int64]core.Saving{
			2: {ID: 2, UserID: 7, Amount: core.NewMoney(500_00), OccurredAt: at, Source: core.SourceManual},
		},
	}
}

func TestHandleExpenseCreated(t *testing.T) {
	ledger := fixture()
	refresher := &fakeRefresher{}
	store := memory.New(time.UTC)
	w := NewLedgerWorker(ledger, refresher, store)

	ev := amqp.NewLedgerEvent(amqp.EventExpenseCreated, 7, 1, 15000_00, ledger.expenses[1].OccurredAt)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(refresher.months) != 1 || refresher.months[0] != "2024-03" {
		t.Fatalf("refreshed %v", refresher.months)
	}
	rows := store.Rows()
	if len(rows) != 1 || rows[0][2] != "Rent" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestHandleExpenseMovedRefreshesBothMonths(t *testing.T) {
	ledger := fixture()
	refresher := &fakeRefresher{}
	w := NewLedgerWorker(ledger, refresher, nil)

	moved := amqp.NewLedgerEvent(amqp.EventExpenseUpdated, 7, 1, 15000_00, ledger.expenses[1].OccurredAt)
	prev := time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC)
	moved.PreviousOccurredAt = &prev
	if err := w.HandleEvent(context.Background(), moved); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(refresher.months) != 2 || refresher.months[0] != "2024-03" || refresher.months[1] != "2024-02" {
		t.Fatalf("refreshed %v, want [2024-03 2024-02]", refresher.months)
	}

	refresher.months = nil
	sameMonth := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	moved.PreviousOccurredAt = &sameMonth
	if err := w.HandleEvent(context.Background(), moved); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(refresher.months) != 1 || refresher.months[0] != "2024-03" {
		t.Fatalf("refreshed %v, want [2024-03]", refresher.months)
	}
}

func TestHandleSavingCreatedSkipsPrediction(t *testing.T) {
	ledger := fixture()
	refresher := &fakeRefresher{}
	store := memory.New(time.UTC)
	w := NewLedgerWorker(ledger, refresher, store)

	ev := amqp.NewLedgerEvent(amqp.EventSavingCreated, 7, 2, 500_00, time.Now())
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(refresher.months) != 0 {
		t.Fatalf("savings must not refresh predictions: %v", refresher.months)
	}
	if rows := store.Rows(); len(rows) != 1 || rows[0][1] != "saving" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestHandleDeletedRowIsSkipped(t *testing.T) {
	store := memory.New(time.UTC)
	w := NewLedgerWorker(fixture(), &fakeRefresher{}, store)

	// Another user's id looks the same as a deleted row.
	ev := amqp.NewLedgerEvent(amqp.EventExpenseCreated, 8, 1, 100, time.Now())
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Fatal("nothing should be exported")
	}
}

func TestHandleEventErrors(t *testing.T) {
	ev := amqp.NewLedgerEvent(amqp.EventExpenseCreated, 7, 1, 100, time.Now())

	w := NewLedgerWorker(fixture(), &fakeRefresher{}, failingWriter{})
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Fatal("expected sheets error")
	}

	w = NewLedgerWorker(fixture(), &fakeRefresher{err: errors.New("db locked")}, nil)
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Fatal("expected refresh error")
	}

	// Without a spreadsheet the export is a no-op.
	w = NewLedgerWorker(fixture(), nil, nil)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchedulerAdd(t *testing.T) {
	s := NewScheduler(context.Background(), time.UTC, time.Second)
	noop := func(context.Context) error { return nil }

	if err := s.Add("disabled", "", noop); err != nil {
		t.Fatalf("empty spec: %v", err)
	}
	if err := s.Add("bad", "not a cron spec", noop); err == nil {
		t.Fatal("expected parse error")
	}
	if err := s.Add("weekly", "0 6 * * 1", noop); err != nil {
		t.Fatalf("valid spec: %v", err)
	}
	if s.Entries() != 1 {
		t.Fatalf("entries = %d", s.Entries())
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestSchedulerRunAppliesTimeout(t *testing.T) {
	s := NewScheduler(context.Background(), nil, 50*time.Millisecond)
	done := make(chan error, 1)
	s.run("slow", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			done <- errors.New("no deadline")
			return nil
		}
		<-ctx.Done()
		done <- nil
		return ctx.Err()
	})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
