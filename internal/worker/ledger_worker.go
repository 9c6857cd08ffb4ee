// Package worker consumes ledger events and runs scheduled jobs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/sheets"
)

type (
	// LedgerReader loads the rows an event refers to.
	LedgerReader interface {
		GetExpense(ctx context.Context, userID, id int64) (core.Expense, error)
		GetSaving(ctx context.Context, userID, id int64) (core.Saving, error)
	}

	// Refresher recomputes a month's forecast.
	Refresher interface {
		Refresh(ctx context.Context, userID int64, month string) (core.Prediction, error)
		MonthOf(t time.Time) string
	}
)

// LedgerWorker reacts to ledger events: it refreshes the affected month's
// prediction and mirrors new rows to the spreadsheet when one is configured.
type LedgerWorker struct {
	ledger      LedgerReader
	predictions Refresher
	sheets      sheets.LedgerWriter
}

// NewLedgerWorker builds a worker. writer may be nil to disable the export.
func NewLedgerWorker(ledger LedgerReader, predictions Refresher, writer sheets.LedgerWriter) *LedgerWorker {
	return &LedgerWorker{ledger: ledger, predictions: predictions, sheets: writer}
}

// HandleEvent processes a single ledger event from AMQP. Returning an error
// asks the consumer to retry the delivery.
func (w *LedgerWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event_id", ev.ID,
		"type", ev.Type,
		"user_id", ev.UserID,
		"entity_id", ev.EntityID)

	switch ev.Type {
	case amqp.EventExpenseCreated, amqp.EventExpenseUpdated, amqp.EventExpenseDeleted:
		if err := w.refresh(ctx, ev); err != nil {
			return err
		}
	}

	switch ev.Type {
	case amqp.EventExpenseCreated:
		return w.exportExpense(ctx, ev)
	case amqp.EventSavingCreated:
		return w.exportSaving(ctx, ev)
	}
	return nil
}

// refresh recomputes the month the event happened in and, for an update
// that moved the expense, the month it moved out of.
func (w *LedgerWorker) refresh(ctx context.Context, ev *amqp.LedgerEvent) error {
	if w.predictions == nil {
		return nil
	}
	months := []string{w.predictions.MonthOf(ev.OccurredAt)}
	if ev.PreviousOccurredAt != nil {
		if prev := w.predictions.MonthOf(*ev.PreviousOccurredAt); prev != months[0] {
			months = append(months, prev)
		}
	}
	for _, month := range months {
		if _, err := w.predictions.Refresh(ctx, ev.UserID, month); err != nil {
			return fmt.Errorf("refresh prediction %s: %w", month, err)
		}
	}
	return nil
}

func (w *LedgerWorker) exportExpense(ctx context.Context, ev *amqp.LedgerEvent) error {
	if w.sheets == nil {
		return nil
	}
	e, err := w.ledger.GetExpense(ctx, ev.UserID, ev.EntityID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Expense gone before export, skipping", "entity_id", ev.EntityID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}
	ref, err := w.sheets.AppendExpense(ctx, e)
	if err != nil {
		return fmt.Errorf("append expense to sheets: %w", err)
	}
	slog.InfoContext(ctx, "Successfully exported expense",
		"expense_id", e.ID,
		"sheets_ref", ref,
		"amount_minor", e.Amount.Minor)
	return nil
}

func (w *LedgerWorker) exportSaving(ctx context.Context, ev *amqp.LedgerEvent) error {
	if w.sheets == nil {
		return nil
	}
	s, err := w.ledger.GetSaving(ctx, ev.UserID, ev.EntityID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Saving gone before export, skipping", "entity_id", ev.EntityID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get saving from storage: %w", err)
	}
	ref, err := w.sheets.AppendSaving(ctx, s)
	if err != nil {
		return fmt.Errorf("append saving to sheets: %w", err)
	}
	slog.InfoContext(ctx, "Successfully exported saving",
		"saving_id", s.ID,
		"sheets_ref", ref,
		"amount_minor", s.Amount.Minor)
	return nil
}
