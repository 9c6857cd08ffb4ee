package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/report"
	"pennywise/internal/storage"
)

type PredictionService struct {
	store *storage.SQLiteRepository
	clock core.Clock
	loc   *time.Location
}

func NewPredictionService(store *storage.SQLiteRepository, clock core.Clock, loc *time.Location) *PredictionService {
	if clock == nil {
		clock = core.SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PredictionService{store: store, clock: clock, loc: loc}
}

// MonthOf returns the month key of t in the configured zone.
func (s *PredictionService) MonthOf(t time.Time) string {
	t = t.In(s.loc)
	return core.MonthKey(t.Year(), t.Month())
}

// Refresh recomputes and stores the forecast for month. Months in the
// history window that have ended get their actual total filled in, as does
// month itself once it is over. History months without expenses are not
// averaged in.
func (s *PredictionService) Refresh(ctx context.Context, userID int64, month string) (core.Prediction, error) {
	year, mon, err := core.ParseMonthKey(month)
	if err != nil {
		return core.Prediction{}, core.NewValidationError("month", "must be formatted YYYY-MM")
	}
	month = core.MonthKey(year, mon)
	now := s.clock.Now()

	start, end := core.MonthBounds(year, mon, s.loc)
	expenses, err := s.store.ListExpenses(ctx, userID, start.AddDate(0, -report.HistoryMonths, 0), end)
	if err != nil {
		return core.Prediction{}, err
	}
	byMonth := map[string][]core.Expense{}
	for _, e := range expenses {
		k := s.MonthOf(e.OccurredAt)
		byMonth[k] = append(byMonth[k], e)
	}

	var history []report.MonthTotals
	for i := report.HistoryMonths; i >= 1; i-- {
		ms := start.AddDate(0, -i, 0)
		k := core.MonthKey(ms.Year(), ms.Month())
		rows, ok := byMonth[k]
		totals := report.TotalsFor(k, rows)
		if ok {
			history = append(history, totals)
		}
		if !start.AddDate(0, 1-i, 0).After(now) {
			if err := s.fillActual(ctx, userID, k, totals.Total); err != nil {
				return core.Prediction{}, err
			}
		}
	}

	current := report.TotalsFor(month, byMonth[month])
	f, err := report.Predict(month, history, current, now, s.loc)
	if err != nil {
		return core.Prediction{}, err
	}

	p := core.Prediction{
		UserID:    userID,
		Month:     month,
		Predicted: core.NewMoney(f.Predicted),
		Breakdown: f.Breakdown,
		UpdatedAt: now,
	}
	if !end.After(now) {
		actual := core.NewMoney(current.Total)
		p.Actual = &actual
	}
	saved, err := s.store.UpsertPrediction(ctx, p)
	if err != nil {
		return core.Prediction{}, err
	}

	slog.InfoContext(ctx, "Prediction refreshed",
		"user_id", userID,
		"month", month,
		"method", f.Method,
		"predicted_minor", f.Predicted,
		"history_months", len(history))
	return saved, nil
}

// RefreshCurrent refreshes the month containing now.
func (s *PredictionService) RefreshCurrent(ctx context.Context, userID int64) (core.Prediction, error) {
	return s.Refresh(ctx, userID, s.MonthOf(s.clock.Now()))
}

// RefreshAll refreshes the current month for every user.
func (s *PredictionService) RefreshAll(ctx context.Context) error {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if _, err := s.RefreshCurrent(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *PredictionService) List(ctx context.Context, userID int64) ([]core.Prediction, error) {
	return s.store.ListPredictions(ctx, userID)
}

func (s *PredictionService) fillActual(ctx context.Context, userID int64, month string, total int64) error {
	err := s.store.SetPredictionActual(ctx, userID, month, total)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}
	return nil
}
