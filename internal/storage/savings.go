package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/core"
)

const savingColumns = `id, user_id, amount_minor, occurred_at, source, goal_id, notes, created_at`

func scanSaving(s scanner) (core.Saving, error) {
	var (
		sv                    core.Saving
		amount                int64
		occurredAt, createdAt int64
		source                string
		goalID                sql.NullInt64
	)
	if err := s.Scan(&sv.ID, &sv.UserID, &amount, &occurredAt, &source, &goalID, &sv.Notes, &createdAt); err != nil {
		return core.Saving{}, err
	}
	sv.Amount = core.NewMoney(amount)
	sv.OccurredAt = fromMillis(occurredAt)
	sv.Source = core.SavingSource(source)
	if goalID.Valid {
		id := goalID.Int64
		sv.GoalID = &id
	}
	sv.CreatedAt = fromMillis(createdAt)
	return sv, nil
}

func insertSaving(ctx context.Context, ex execer, s core.Saving) (int64, error) {
	var goalID any
	if s.GoalID != nil {
		goalID = *s.GoalID
	}
	res, err := ex.ExecContext(ctx,
		`INSERT INTO savings (user_id, amount_minor, occurred_at, source, goal_id, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.Amount.Minor, toMillis(s.OccurredAt), string(s.Source), goalID, s.Notes, toMillis(s.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert saving: %w", err)
	}
	return res.LastInsertId()
}

// CreateSaving inserts a saving and grants coins in the same transaction.
func (r *SQLiteRepository) CreateSaving(ctx context.Context, s core.Saving, coins int64) (core.Saving, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = insertSaving(ctx, tx, s); err != nil {
			return err
		}
		return addCoins(ctx, tx, s.UserID, coins)
	})
	if err != nil {
		return core.Saving{}, fmt.Errorf("create saving: %w", err)
	}

	slog.InfoContext(ctx, "Saving recorded",
		"saving_id", id,
		"user_id", s.UserID,
		"amount_minor", s.Amount.Minor,
		"source", s.Source,
		"coins_awarded", coins)

	return r.GetSaving(ctx, s.UserID, id)
}

func (r *SQLiteRepository) GetSaving(ctx context.Context, userID, id int64) (core.Saving, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+savingColumns+` FROM savings WHERE id = ? AND user_id = ?`, id, userID)
	s, err := scanSaving(row)
	if err != nil {
		return core.Saving{}, fmt.Errorf("get saving %d: %w", id, notFound(err))
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteSaving(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saving: %w", err)
	}
	if err := expectRow(res); err != nil {
		return fmt.Errorf("delete saving %d: %w", id, err)
	}
	return nil
}

// ListSavings returns savings with occurred_at in [from, to), newest first.
func (r *SQLiteRepository) ListSavings(ctx context.Context, userID int64, from, to time.Time) ([]core.Saving, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+savingColumns+` FROM savings
		 WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		 ORDER BY occurred_at DESC, id DESC`,
		userID, toMillis(from), toMillis(to))
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	savings := []core.Saving{}
	for rows.Next() {
		s, err := scanSaving(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saving: %w", err)
		}
		savings = append(savings, s)
	}
	return savings, rows.Err()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func savingsBalance(ctx context.Context, q querier, userID int64) (int64, error) {
	var balance int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_minor), 0) FROM savings WHERE user_id = ?`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("savings balance: %w", err)
	}
	return balance, nil
}

// SavingsBalance is the sum of every saving entry, allocations included.
func (r *SQLiteRepository) SavingsBalance(ctx context.Context, userID int64) (int64, error) {
	return savingsBalance(ctx, r.db, userID)
}
