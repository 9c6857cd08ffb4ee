package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/core"
)

const goalColumns = `id, user_id, name, target_minor, current_minor, start_date, target_date, completed, completed_at, created_at`

func scanGoal(s scanner) (core.Goal, error) {
	var (
		g                     core.Goal
		target, current       int64
		startDate, targetDate string
		completedAt           sql.NullInt64
		createdAt             int64
	)
	if err := s.Scan(&g.ID, &g.UserID, &g.Name, &target, &current, &startDate, &targetDate, &g.Completed, &completedAt, &createdAt); err != nil {
		return core.Goal{}, err
	}
	var err error
	if g.StartDate, err = fromDate(startDate); err != nil {
		return core.Goal{}, err
	}
	if g.TargetDate, err = fromDate(targetDate); err != nil {
		return core.Goal{}, err
	}
	g.TargetAmount = core.NewMoney(target)
	g.CurrentAmount = core.NewMoney(current)
	g.CompletedAt = nullMillis(completedAt)
	g.CreatedAt = fromMillis(createdAt)
	return g, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_minor, current_minor, start_date, target_date, created_at)
		 VALUES (?, ?, ?, 0, ?, ?, ?)`,
		g.UserID, g.Name, g.TargetAmount.Minor, toDate(g.StartDate), toDate(g.TargetDate), toMillis(g.CreatedAt))
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetGoal(ctx, g.UserID, id)
}

func getGoal(ctx context.Context, q querier, userID, id int64) (core.Goal, error) {
	row := q.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, notFound(err))
	}
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id int64) (core.Goal, error) {
	return getGoal(ctx, r.db, userID, id)
}

// ListGoals returns open goals first, then by target date.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY completed, target_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []core.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes a goal and returns what was allocated to it to the
// savings pool as one positive goal_allocation entry dated at. The released
// amount is returned.
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id int64, at time.Time) (int64, error) {
	var released int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		g, err := getGoal(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		var allocated int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount_minor), 0) FROM savings
			 WHERE user_id = ? AND goal_id = ? AND source = ?`,
			userID, id, string(core.SourceGoalAllocation)).Scan(&allocated); err != nil {
			return fmt.Errorf("sum allocations: %w", err)
		}
		if released = -allocated; released > 0 {
			if _, err := insertSaving(ctx, tx, core.Saving{
				UserID:     userID,
				Amount:     core.NewMoney(released),
				OccurredAt: at,
				Source:     core.SourceGoalAllocation,
				Notes:      fmt.Sprintf("Released from goal %q", g.Name),
				CreatedAt:  at,
			}); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		return expectRow(res)
	})
	if err != nil {
		return 0, fmt.Errorf("delete goal %d: %w", id, err)
	}
	if released > 0 {
		slog.InfoContext(ctx, "Goal allocations released",
			"goal_id", id,
			"user_id", userID,
			"amount_minor", released)
	}
	return released, nil
}

// Allocation moves Amount from the savings pool into a goal.
type Allocation struct {
	UserID int64
	GoalID int64
	Amount int64
	At     time.Time
}

// AllocationResult is the state after an allocation committed.
type AllocationResult struct {
	Goal         core.Goal
	Saving       core.Saving
	Completed    bool
	CoinsAwarded int64
	Achievement  *core.Achievement
}

// AllocateToGoal records a negative goal_allocation saving, raises the
// goal's current amount and, if this allocation is the one that completes
// the goal, stores the achievement built by onComplete and grants its coins.
// All of it happens in one transaction.
func (r *SQLiteRepository) AllocateToGoal(ctx context.Context, a Allocation, onComplete func(core.Goal) core.Achievement) (AllocationResult, error) {
	if a.Amount <= 0 {
		return AllocationResult{}, core.NewValidationError("amount", "must be greater than zero")
	}
	var result AllocationResult
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getGoal(ctx, tx, a.UserID, a.GoalID); err != nil {
			return err
		}
		balance, err := savingsBalance(ctx, tx, a.UserID)
		if err != nil {
			return err
		}
		if a.Amount > balance {
			return fmt.Errorf("allocate %d with %d available: %w", a.Amount, balance, core.ErrInsufficientPot)
		}

		goalID := a.GoalID
		saving := core.Saving{
			UserID:     a.UserID,
			Amount:     core.NewMoney(-a.Amount),
			OccurredAt: a.At,
			Source:     core.SourceGoalAllocation,
			GoalID:     &goalID,
			CreatedAt:  a.At,
		}
		if saving.ID, err = insertSaving(ctx, tx, saving); err != nil {
			return err
		}
		result.Saving = saving

		if _, err := tx.ExecContext(ctx,
			`UPDATE goals SET current_minor = current_minor + ? WHERE id = ? AND user_id = ?`,
			a.Amount, a.GoalID, a.UserID); err != nil {
			return fmt.Errorf("raise goal amount: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE goals SET completed = 1, completed_at = ?
			 WHERE id = ? AND user_id = ? AND completed = 0 AND current_minor >= target_minor`,
			toMillis(a.At), a.GoalID, a.UserID)
		if err != nil {
			return fmt.Errorf("complete goal: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		if result.Goal, err = getGoal(ctx, tx, a.UserID, a.GoalID); err != nil {
			return err
		}
		if n == 0 || onComplete == nil {
			result.Completed = n == 1
			return nil
		}

		ach := onComplete(result.Goal)
		ach.UserID = a.UserID
		ach.AwardedAt = a.At
		if ach.ID, err = insertAchievement(ctx, tx, ach); err != nil {
			return err
		}
		if err := addCoins(ctx, tx, a.UserID, ach.Coins); err != nil {
			return err
		}
		result.Completed = true
		result.CoinsAwarded = ach.Coins
		result.Achievement = &ach
		return nil
	})
	if err != nil {
		return AllocationResult{}, fmt.Errorf("allocate to goal %d: %w", a.GoalID, err)
	}

	slog.InfoContext(ctx, "Goal allocation recorded",
		"goal_id", a.GoalID,
		"user_id", a.UserID,
		"amount_minor", a.Amount,
		"completed", result.Completed,
		"coins_awarded", result.CoinsAwarded)

	return result, nil
}
