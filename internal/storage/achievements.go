package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/core"
)

const achievementColumns = `id, user_id, type, name, description, coins, period_key, awarded_at`

func scanAchievement(s scanner) (core.Achievement, error) {
	var (
		a         core.Achievement
		typ       string
		awardedAt int64
	)
	if err := s.Scan(&a.ID, &a.UserID, &typ, &a.Name, &a.Description, &a.Coins, &a.PeriodKey, &awardedAt); err != nil {
		return core.Achievement{}, err
	}
	a.Type = core.AchievementType(typ)
	a.AwardedAt = fromMillis(awardedAt)
	return a, nil
}

func insertAchievement(ctx context.Context, ex execer, a core.Achievement) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO achievements (user_id, type, name, description, coins, period_key, awarded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, string(a.Type), a.Name, a.Description, a.Coins, a.PeriodKey, toMillis(a.AwardedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("achievement %s/%s: %w", a.Type, a.PeriodKey, core.ErrConflict)
		}
		return 0, fmt.Errorf("insert achievement: %w", err)
	}
	return res.LastInsertId()
}

// AwardAchievement stores a and grants its coins atomically. An achievement
// already recorded for the same type and period yields core.ErrConflict and
// changes nothing.
func (r *SQLiteRepository) AwardAchievement(ctx context.Context, a core.Achievement) (core.Achievement, error) {
	if a.AwardedAt.IsZero() {
		a.AwardedAt = time.Now()
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if a.ID, err = insertAchievement(ctx, tx, a); err != nil {
			return err
		}
		return addCoins(ctx, tx, a.UserID, a.Coins)
	})
	if err != nil {
		return core.Achievement{}, fmt.Errorf("award achievement: %w", err)
	}

	slog.InfoContext(ctx, "Achievement awarded",
		"user_id", a.UserID,
		"type", a.Type,
		"period", a.PeriodKey,
		"coins_awarded", a.Coins)
	return a, nil
}

// ListAchievements returns a user's achievements, newest first.
func (r *SQLiteRepository) ListAchievements(ctx context.Context, userID int64) ([]core.Achievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements WHERE user_id = ? ORDER BY awarded_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	out := []core.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
