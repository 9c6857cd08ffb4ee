package services

import (
	"context"
	"strings"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/rewards"
	"pennywise/internal/storage"
)

type GoalInput struct {
	Name         string
	TargetAmount int64
	StartDate    time.Time
	TargetDate   time.Time
}

type GoalService struct {
	store     *storage.SQLiteRepository
	publisher Publisher
	cache     *ReadCache
	clock     core.Clock
	loc       *time.Location
}

func NewGoalService(store *storage.SQLiteRepository, publisher Publisher, cache *ReadCache, clock core.Clock, loc *time.Location) *GoalService {
	if clock == nil {
		clock = core.SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GoalService{store: store, publisher: publisher, cache: cache, clock: clock, loc: loc}
}

func (s *GoalService) Create(ctx context.Context, userID int64, in GoalInput) (core.Goal, error) {
	now := s.clock.Now()
	g := core.Goal{
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		TargetAmount: core.NewMoney(in.TargetAmount),
		StartDate:    in.StartDate,
		TargetDate:   in.TargetDate,
		CreatedAt:    now,
	}
	if g.StartDate.IsZero() {
		y, m, d := now.In(s.loc).Date()
		g.StartDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return s.store.CreateGoal(ctx, g)
}

func (s *GoalService) Get(ctx context.Context, userID, id int64) (core.Goal, error) {
	return s.store.GetGoal(ctx, userID, id)
}

func (s *GoalService) List(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.store.DeleteGoal(ctx, userID, id, s.clock.Now()); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// Allocate moves amount from the savings pool into the goal. The allocation
// that first brings the goal to its target earns the goal_met achievement.
func (s *GoalService) Allocate(ctx context.Context, userID, goalID, amount int64) (storage.AllocationResult, error) {
	if amount <= 0 {
		return storage.AllocationResult{}, core.NewValidationError("amount", "must be greater than zero")
	}
	now := s.clock.Now()
	res, err := s.store.AllocateToGoal(ctx, storage.Allocation{
		UserID: userID,
		GoalID: goalID,
		Amount: amount,
		At:     now,
	}, rewards.GoalMetAchievement)
	if err != nil {
		return storage.AllocationResult{}, err
	}
	s.cache.InvalidateUser(ctx, userID)
	publish(ctx, s.publisher, amqp.NewLedgerEvent(amqp.EventGoalAllocated, userID, goalID, amount, now))
	return res, nil
}
