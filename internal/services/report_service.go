package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pennywise/internal/classify"
	"pennywise/internal/core"
	"pennywise/internal/report"
	"pennywise/internal/storage"
)

// MonthlyReport is a month's summary compared with the month before it.
type MonthlyReport struct {
	Month                string
	Summary              report.Summary
	PreviousMonth        string
	PreviousExpenseTotal int64
	PreviousSavingsTotal int64
	ExpenseChange        int64
	SavingsChange        int64
	Tips                 []string
}

type ReportService struct {
	store  *storage.SQLiteRepository
	engine *classify.Engine
	cache  *ReadCache
	loc    *time.Location
}

func NewReportService(store *storage.SQLiteRepository, engine *classify.Engine, cache *ReadCache, loc *time.Location) *ReportService {
	if engine == nil {
		engine = classify.NewEngine(nil, classify.DefaultConfig())
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{store: store, engine: engine, cache: cache, loc: loc}
}

// Summary aggregates [from, to).
func (s *ReportService) Summary(ctx context.Context, userID int64, from, to time.Time) (report.Summary, error) {
	if !to.After(from) {
		return report.Summary{}, core.NewValidationError("to", "must be after from")
	}
	key := summaryKey(userID, from, to)
	c := s.cache.summaries()
	if c != nil {
		if sum, ok := c.Get(ctx, key); ok {
			return sum, nil
		}
	}
	gen := s.cache.generation(userID)

	var (
		expenses []core.Expense
		savings  []core.Saving
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpenses(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		savings, err = s.store.ListSavings(gctx, userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.Summary{}, err
	}

	sum := report.Summarize(expenses, savings)
	storeIfCurrent(ctx, s.cache, c, userID, gen, key, sum)
	return sum, nil
}

// Monthly builds the report for one calendar month in the configured zone.
func (s *ReportService) Monthly(ctx context.Context, userID int64, year int, month time.Month) (MonthlyReport, error) {
	v := &core.ValidationError{}
	if year < 1970 || year > 9999 {
		v.Add("year", "is out of range")
	}
	if month < time.January || month > time.December {
		v.Add("month", "must be between 1 and 12")
	}
	if err := v.OrNil(); err != nil {
		return MonthlyReport{}, err
	}

	start, end := core.MonthBounds(year, month, s.loc)
	prevStart := start.AddDate(0, -1, 0)

	var cur, prev report.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cur, err = s.Summary(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		prev, err = s.Summary(gctx, userID, prevStart, start)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthlyReport{}, err
	}

	return MonthlyReport{
		Month:                core.MonthKey(year, month),
		Summary:              cur,
		PreviousMonth:        core.MonthKey(prevStart.Year(), prevStart.Month()),
		PreviousExpenseTotal: prev.ExpenseTotal,
		PreviousSavingsTotal: prev.SavingsTotal,
		ExpenseChange:        report.PercentChange(cur.ExpenseTotal, prev.ExpenseTotal),
		SavingsChange:        report.PercentChange(cur.SavingsTotal, prev.SavingsTotal),
		Tips:                 s.engine.SavingsTips(ctx, cur.SpendingSummary()),
	}, nil
}
