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

type SavingInput struct {
	Amount     int64
	Source     core.SavingSource
	OccurredAt time.Time
	Notes      string
}

type SavingResult struct {
	Saving       core.Saving
	CoinsAwarded int64
}

type SavingService struct {
	store     *storage.SQLiteRepository
	publisher Publisher
	cache     *ReadCache
	clock     core.Clock
}

func NewSavingService(store *storage.SQLiteRepository, publisher Publisher, cache *ReadCache, clock core.Clock) *SavingService {
	if clock == nil {
		clock = core.SystemClock()
	}
	return &SavingService{store: store, publisher: publisher, cache: cache, clock: clock}
}

// Create records a deposit into the savings pool. Goal allocations are
// only created through GoalService.Allocate.
func (s *SavingService) Create(ctx context.Context, userID int64, in SavingInput) (SavingResult, error) {
	now := s.clock.Now()
	saving := core.Saving{
		UserID:     userID,
		Amount:     core.NewMoney(in.Amount),
		OccurredAt: in.OccurredAt,
		Source:     in.Source,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
	}
	if saving.Source == "" {
		saving.Source = core.SourceManual
	}
	if saving.OccurredAt.IsZero() {
		saving.OccurredAt = now
	}
	if saving.Source == core.SourceGoalAllocation {
		return SavingResult{}, core.NewValidationError("source", "goal allocations are made through a goal")
	}
	if err := saving.Validate(); err != nil {
		return SavingResult{}, err
	}

	coins := rewards.DepositAward(saving)
	saved, err := s.store.CreateSaving(ctx, saving, coins)
	if err != nil {
		return SavingResult{}, err
	}
	s.cache.InvalidateUser(ctx, userID)
	publish(ctx, s.publisher, amqp.NewLedgerEvent(amqp.EventSavingCreated, userID, saved.ID, saved.Amount.Minor, saved.OccurredAt))
	return SavingResult{Saving: saved, CoinsAwarded: coins}, nil
}

// Delete removes a deposit. Allocation entries stay, since the goal they
// funded keeps its amount.
func (s *SavingService) Delete(ctx context.Context, userID, id int64) error {
	saving, err := s.store.GetSaving(ctx, userID, id)
	if err != nil {
		return err
	}
	if saving.Source == core.SourceGoalAllocation {
		return core.NewValidationError("source", "goal allocations cannot be deleted")
	}
	if err := s.store.DeleteSaving(ctx, userID, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	publish(ctx, s.publisher, amqp.NewLedgerEvent(amqp.EventSavingDeleted, userID, id, saving.Amount.Minor, saving.OccurredAt))
	return nil
}

func (s *SavingService) List(ctx context.Context, userID int64, from, to time.Time) ([]core.Saving, error) {
	if !to.After(from) {
		return nil, core.NewValidationError("to", "must be after from")
	}
	return s.store.ListSavings(ctx, userID, from, to)
}

// Balance is the unallocated savings pool.
func (s *SavingService) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.store.SavingsBalance(ctx, userID)
}
