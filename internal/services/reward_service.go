package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"pennywise/internal/core"
	"pennywise/internal/rewards"
	"pennywise/internal/storage"
	"pennywise/internal/target"
)

const (
	DefaultHistoryWeeks = 4
	MaxHistoryWeeks     = 52
)

// WeeklyStatus is the current week's target with what has been saved so far.
type WeeklyStatus struct {
	target.Summary
	Saved    int64
	Progress int64
}

// Reconciliation is the outcome of settling one finished week.
type Reconciliation struct {
	Week           target.Week
	Target         int64
	Actual         int64
	CoinsAwarded   int64
	Achievement    *core.Achievement
	AlreadyAwarded bool
}

// RewardService owns the weekly target views and the weekly award.
type RewardService struct {
	store *storage.SQLiteRepository
	calc  target.Calculator
	cache *ReadCache
	clock core.Clock
}

func NewRewardService(store *storage.SQLiteRepository, calc target.Calculator, cache *ReadCache, clock core.Clock) *RewardService {
	if clock == nil {
		clock = core.SystemClock()
	}
	return &RewardService{store: store, calc: calc, cache: cache, clock: clock}
}

// load fetches expenses and savings in [from, to) concurrently.
func (s *RewardService) load(ctx context.Context, userID int64, from, to time.Time) ([]core.Expense, []core.Saving, error) {
	var (
		expenses []core.Expense
		savings  []core.Saving
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		savings, err = s.store.ListSavings(gctx, userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expenses, savings, nil
}

// Current returns the discounted target for the week containing now.
func (s *RewardService) Current(ctx context.Context, userID int64) (WeeklyStatus, error) {
	now := s.clock.Now()
	w := target.WeekOf(now, s.calc.Location)
	expenses, savings, err := s.load(ctx, userID, w.Start, w.End)
	if err != nil {
		return WeeklyStatus{}, err
	}
	st := WeeklyStatus{Summary: s.calc.Compute(now, expenses), Saved: sumSavings(savings)}
	st.Progress = target.AwardCoins(st.Saved, st.Target)
	return st, nil
}

// History returns weeks trailing weekly records, oldest first.
func (s *RewardService) History(ctx context.Context, userID int64, weeks int) ([]target.Record, error) {
	if weeks == 0 {
		weeks = DefaultHistoryWeeks
	}
	if weeks < 1 || weeks > MaxHistoryWeeks {
		return nil, core.NewValidationError("weeks", fmt.Sprintf("must be between 1 and %d", MaxHistoryWeeks))
	}

	now := s.clock.Now()
	key := historyKey(userID, weeks, target.WeekOf(now, s.calc.Location))
	c := s.cache.history()
	if c != nil {
		if records, ok := c.Get(ctx, key); ok {
			return records, nil
		}
	}
	gen := s.cache.generation(userID)

	from, to := s.calc.Span(now, weeks)
	expenses, savings, err := s.load(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := s.calc.History(now, weeks, expenses, savings)
	storeIfCurrent(ctx, s.cache, c, userID, gen, key, records)
	return records, nil
}

// Reconcile settles a finished week and awards the weekly_target
// achievement at most once. A nil weekStart selects the previous week.
func (s *RewardService) Reconcile(ctx context.Context, userID int64, weekStart *time.Time) (Reconciliation, error) {
	now := s.clock.Now()
	w := target.WeekOf(now, s.calc.Location).Previous()
	if weekStart != nil {
		w = target.WeekOf(*weekStart, s.calc.Location)
	}
	if w.End.After(now) {
		return Reconciliation{}, core.NewValidationError("weekStart", "week has not finished yet")
	}

	expenses, savings, err := s.load(ctx, userID, w.Start, w.End)
	if err != nil {
		return Reconciliation{}, err
	}
	summary := s.calc.Compute(w.Start, expenses)
	rec := Reconciliation{Week: w, Target: summary.Target, Actual: sumSavings(savings)}

	ach, ok := rewards.WeeklyTargetAchievement(userID, w, rec.Actual, rec.Target)
	if !ok {
		return rec, nil
	}
	ach.AwardedAt = now
	saved, err := s.store.AwardAchievement(ctx, ach)
	if errors.Is(err, core.ErrConflict) {
		rec.AlreadyAwarded = true
		return rec, nil
	}
	if err != nil {
		return Reconciliation{}, err
	}
	rec.CoinsAwarded = saved.Coins
	rec.Achievement = &saved
	s.cache.InvalidateUser(ctx, userID)
	return rec, nil
}

// ReconcileAll settles the previous week for every user.
func (s *RewardService) ReconcileAll(ctx context.Context) error {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		rec, err := s.Reconcile(ctx, id, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", id, err))
			continue
		}
		slog.InfoContext(ctx, "Week reconciled",
			"user_id", id,
			"week", rec.Week.Key(),
			"target_minor", rec.Target,
			"actual_minor", rec.Actual,
			"coins_awarded", rec.CoinsAwarded,
			"already_awarded", rec.AlreadyAwarded)
	}
	return errors.Join(errs...)
}

func (s *RewardService) Achievements(ctx context.Context, userID int64) ([]core.Achievement, error) {
	return s.store.ListAchievements(ctx, userID)
}

func sumSavings(savings []core.Saving) int64 {
	var total int64
	for _, sv := range savings {
		total += sv.Amount.Minor
	}
	return total
}
