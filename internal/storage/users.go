package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pennywise/internal/core"
)

const userColumns = `id, username, display_name, password_hash, coins, streak, last_login, created_at`

func scanUser(s scanner) (core.User, error) {
	var (
		u         core.User
		lastLogin sql.NullInt64
		createdAt int64
	)
	if err := s.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Coins, &u.Streak, &lastLogin, &createdAt); err != nil {
		return core.User{}, err
	}
	u.LastLogin = nullMillis(lastLogin)
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// CreateUser inserts a user. A taken username yields core.ErrConflict.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, display_name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.DisplayName, u.PasswordHash, toMillis(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("username %q: %w", u.Username, core.ErrConflict)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", u.Username)
	return r.GetUser(ctx, id)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, fmt.Errorf("get user %d: %w", id, notFound(err))
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, fmt.Errorf("get user %q: %w", username, notFound(err))
	}
	return u, nil
}

// ListUserIDs returns every user id in ascending order.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ApplyLogin writes a login transition only if last_login still equals prev.
// It returns false when another login got there first.
func (r *SQLiteRepository) ApplyLogin(ctx context.Context, userID int64, prev *time.Time, streak, coinsDelta int64, lastLogin time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET streak = ?, coins = coins + ?, last_login = ? WHERE id = ? AND last_login IS ?`,
		streak, coinsDelta, toMillis(lastLogin), userID, optMillis(prev))
	if err != nil {
		return false, fmt.Errorf("apply login: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
