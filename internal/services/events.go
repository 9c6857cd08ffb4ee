package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/cache"
	"pennywise/internal/report"
	"pennywise/internal/target"
)

// Publisher sends ledger events to the worker. *amqp.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev *amqp.LedgerEvent) error
}

// publish is best effort: the ledger row is already committed, so a broker
// failure is logged and swallowed.
func publish(ctx context.Context, p Publisher, ev *amqp.LedgerEvent) {
	if p == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping ledger event", "type", ev.Type)
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", ev.Type,
			"user_id", ev.UserID,
			"entity_id", ev.EntityID,
			"error", err)
	}
}

// ReadCache holds the per-user read models. Every mutation for a user drops
// all of that user's entries and bumps the user's generation, so a read that
// loaded before the mutation never leaves its result behind. A nil
// *ReadCache disables caching.
type ReadCache struct {
	History   cache.Cache[[]target.Record]
	Summaries cache.Cache[report.Summary]

	mu   sync.Mutex
	gens map[int64]uint64
}

func NewReadCache(history cache.Cache[[]target.Record], summaries cache.Cache[report.Summary]) *ReadCache {
	return &ReadCache{History: history, Summaries: summaries, gens: make(map[int64]uint64)}
}

// generation returns the number of invalidations seen for userID.
func (c *ReadCache) generation(userID int64) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}

func (c *ReadCache) bump(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens == nil {
		c.gens = make(map[int64]uint64)
	}
	c.gens[userID]++
}

// storeIfCurrent caches v unless userID was invalidated since gen was read.
// The second check covers an invalidation that lands between the first
// check and Set; its own DeletePrefix may already have run.
func storeIfCurrent[T any](ctx context.Context, rc *ReadCache, c cache.Cache[T], userID int64, gen uint64, key string, v T) {
	if c == nil || rc.generation(userID) != gen {
		return
	}
	c.Set(ctx, key, v)
	if rc.generation(userID) != gen {
		c.Delete(ctx, key)
	}
}

func userPrefix(userID int64) string {
	return fmt.Sprintf("u:%d:", userID)
}

func historyKey(userID int64, weeks int, current target.Week) string {
	return fmt.Sprintf("%shistory:%d:%s", userPrefix(userID), weeks, current.Key())
}

func summaryKey(userID int64, from, to time.Time) string {
	return fmt.Sprintf("%ssummary:%d:%d", userPrefix(userID), from.UnixMilli(), to.UnixMilli())
}

// InvalidateUser forgets everything cached for userID.
func (c *ReadCache) InvalidateUser(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	c.bump(userID)
	prefix := userPrefix(userID)
	if c.History != nil {
		c.History.DeletePrefix(ctx, prefix)
	}
	if c.Summaries != nil {
		c.Summaries.DeletePrefix(ctx, prefix)
	}
}

func (c *ReadCache) history() cache.Cache[[]target.Record] {
	if c == nil {
		return nil
	}
	return c.History
}

func (c *ReadCache) summaries() cache.Cache[report.Summary] {
	if c == nil {
		return nil
	}
	return c.Summaries
}
