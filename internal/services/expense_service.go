package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/classify"
	"pennywise/internal/core"
	"pennywise/internal/rewards"
	"pennywise/internal/storage"
)

// ExpenseInput carries the user-supplied fields of an expense. Zero values
// mean "not given": category and tier are then filled by the classifier.
type ExpenseInput struct {
	Name        string
	Amount      int64
	OccurredAt  time.Time
	Category    string
	Tier        core.Tier
	PaymentMode core.PaymentMode
	Notes       string
}

type ExpenseResult struct {
	Expense      core.Expense
	CoinsAwarded int64
}

// ExpenseService orchestrates expense operations across SQLite, the
// classifier and AMQP.
type ExpenseService struct {
	store     *storage.SQLiteRepository
	engine    *classify.Engine
	publisher Publisher
	cache     *ReadCache
	clock     core.Clock
	loc       *time.Location
}

func NewExpenseService(store *storage.SQLiteRepository, engine *classify.Engine, publisher Publisher, cache *ReadCache, clock core.Clock, loc *time.Location) *ExpenseService {
	if engine == nil {
		engine = classify.NewEngine(nil, classify.DefaultConfig())
	}
	if clock == nil {
		clock = core.SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ExpenseService{
		store:     store,
		engine:    engine,
		publisher: publisher,
		cache:     cache,
		clock:     clock,
		loc:       loc,
	}
}

// Create stores an expense and grants the first-expense-of-day coins when
// this is the user's first expense logged today.
func (s *ExpenseService) Create(ctx context.Context, userID int64, in ExpenseInput) (ExpenseResult, error) {
	now := s.clock.Now()
	e := core.Expense{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Amount:      core.NewMoney(in.Amount),
		OccurredAt:  in.OccurredAt,
		Category:    core.NormalizeCategory(in.Category),
		Tier:        in.Tier,
		PaymentMode: in.PaymentMode,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	if e.PaymentMode == "" {
		e.PaymentMode = core.PaymentCash
	}
	s.fill(ctx, &e)
	if err := e.Validate(); err != nil {
		return ExpenseResult{}, err
	}

	award := &storage.DailyAward{
		Kind:  rewards.DailyKindFirstExpense,
		Day:   core.DayKey(now, s.loc),
		Coins: rewards.FirstExpenseOfDayCoins,
	}
	saved, granted, err := s.store.CreateExpense(ctx, e, award)
	if err != nil {
		return ExpenseResult{}, err
	}

	s.cache.InvalidateUser(ctx, userID)
	publish(ctx, s.publisher, amqp.NewLedgerEvent(amqp.EventExpenseCreated, userID, saved.ID, saved.Amount.Minor, saved.OccurredAt))
	return ExpenseResult{Expense: saved, CoinsAwarded: granted}, nil
}

// Update replaces the editable fields of an owned expense. Omitted name,
// amount, date, category and payment mode keep their stored values; an
// omitted tier is classified again.
func (s *ExpenseService) Update(ctx context.Context, userID, id int64, in ExpenseInput) (core.Expense, error) {
	e, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return core.Expense{}, err
	}
	previous := e.OccurredAt
	if name := strings.TrimSpace(in.Name); name != "" {
		e.Name = name
	}
	if in.Amount != 0 {
		e.Amount = core.NewMoney(in.Amount)
	}
	if !in.OccurredAt.IsZero() {
		e.OccurredAt = in.OccurredAt
	}
	if in.Category != "" {
		e.Category = core.NormalizeCategory(in.Category)
	}
	if in.PaymentMode != "" {
		e.PaymentMode = in.PaymentMode
	}
	e.Notes = strings.TrimSpace(in.Notes)
	e.Tier = in.Tier
	s.fill(ctx, &e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.store.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}
	s.cache.InvalidateUser(ctx, userID)
	ev := amqp.NewLedgerEvent(amqp.EventExpenseUpdated, userID, id, updated.Amount.Minor, updated.OccurredAt)
	if !previous.Equal(updated.OccurredAt) {
		ev.PreviousOccurredAt = &previous
	}
	publish(ctx, s.publisher, ev)
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	e, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	publish(ctx, s.publisher, amqp.NewLedgerEvent(amqp.EventExpenseDeleted, userID, id, e.Amount.Minor, e.OccurredAt))
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, userID, id)
}

// List returns expenses in [from, to), newest first.
func (s *ExpenseService) List(ctx context.Context, userID int64, from, to time.Time) ([]core.Expense, error) {
	if !to.After(from) {
		return nil, core.NewValidationError("to", "must be after from")
	}
	return s.store.ListExpenses(ctx, userID, from, to)
}

// Categorize suggests a category for an expense name. It never fails.
func (s *ExpenseService) Categorize(ctx context.Context, name string) string {
	return s.engine.Categorize(ctx, name)
}

// fill supplies category and tier when the caller left them out.
func (s *ExpenseService) fill(ctx context.Context, e *core.Expense) {
	if e.Name == "" {
		return
	}
	if e.Category == "" {
		e.Category = s.engine.Categorize(ctx, e.Name)
	}
	if e.Tier == "" {
		if e.Amount.Minor <= 0 {
			return
		}
		d := s.engine.ClassifyDecision(ctx, e.Name, e.Category, e.Amount.Minor)
		e.Tier = d.Tier
		slog.DebugContext(ctx, "Expense tier classified",
			"category", e.Category,
			"amount_minor", e.Amount.Minor,
			"tier", d.Tier,
			"source", d.Source)
	}
}
