package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/core"
)

const expenseColumns = `id, user_id, name, amount_minor, occurred_at, tier, category, payment_mode, notes, created_at`

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e                     core.Expense
		amount                int64
		occurredAt, createdAt int64
		tier, mode            string
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Name, &amount, &occurredAt, &tier, &e.Category, &mode, &e.Notes, &createdAt); err != nil {
		return core.Expense{}, err
	}
	e.Amount = core.NewMoney(amount)
	e.OccurredAt = fromMillis(occurredAt)
	e.Tier = core.Tier(tier)
	e.PaymentMode = core.PaymentMode(mode)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func insertExpense(ctx context.Context, ex execer, e core.Expense) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO expenses (user_id, name, amount_minor, occurred_at, tier, category, payment_mode, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Name, e.Amount.Minor, toMillis(e.OccurredAt), string(e.Tier), e.Category,
		string(e.PaymentMode), e.Notes, toMillis(e.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	return res.LastInsertId()
}

// DailyAward grants Coins the first time Kind happens for a user on Day.
type DailyAward struct {
	Kind  string
	Day   string
	Coins int64
}

// CreateExpense inserts an expense and, in the same transaction, grants the
// daily award if this is the first claim for that day. It returns the stored
// expense and the coins granted.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense, award *DailyAward) (core.Expense, int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var (
		id      int64
		granted int64
	)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = insertExpense(ctx, tx, e)
		if err != nil {
			return err
		}
		if award == nil || award.Coins <= 0 {
			return nil
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO daily_awards (user_id, kind, day) VALUES (?, ?, ?)`,
			e.UserID, award.Kind, award.Day)
		if err != nil {
			return fmt.Errorf("claim daily award: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			if err := addCoins(ctx, tx, e.UserID, award.Coins); err != nil {
				return err
			}
			granted = award.Coins
		}
		return nil
	})
	if err != nil {
		return core.Expense{}, 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", id,
		"user_id", e.UserID,
		"amount_minor", e.Amount.Minor,
		"tier", e.Tier,
		"coins_awarded", granted)

	saved, err := r.GetExpense(ctx, e.UserID, id)
	return saved, granted, err
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, notFound(err))
	}
	return e, nil
}

// UpdateExpense overwrites the editable fields of an owned expense.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET name = ?, amount_minor = ?, occurred_at = ?, tier = ?, category = ?, payment_mode = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		e.Name, e.Amount.Minor, toMillis(e.OccurredAt), string(e.Tier), e.Category, string(e.PaymentMode), e.Notes,
		e.ID, e.UserID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := expectRow(res); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return r.GetExpense(ctx, e.UserID, e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := expectRow(res); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

// ListExpenses returns expenses with occurred_at in [from, to), newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, from, to time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		 ORDER BY occurred_at DESC, id DESC`,
		userID, toMillis(from), toMillis(to))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
