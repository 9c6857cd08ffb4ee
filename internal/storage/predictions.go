package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pennywise/internal/core"
)

const predictionColumns = `id, user_id, month, predicted_minor, actual_minor, breakdown, updated_at`

func scanPrediction(s scanner) (core.Prediction, error) {
	var (
		p         core.Prediction
		predicted int64
		actual    sql.NullInt64
		breakdown string
		updatedAt int64
	)
	if err := s.Scan(&p.ID, &p.UserID, &p.Month, &predicted, &actual, &breakdown, &updatedAt); err != nil {
		return core.Prediction{}, err
	}
	p.Predicted = core.NewMoney(predicted)
	if actual.Valid {
		m := core.NewMoney(actual.Int64)
		p.Actual = &m
	}
	p.Breakdown = map[string]int64{}
	if err := json.Unmarshal([]byte(breakdown), &p.Breakdown); err != nil {
		return core.Prediction{}, fmt.Errorf("decode breakdown: %w", err)
	}
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

// UpsertPrediction inserts or replaces the forecast for p.Month. A stored
// actual survives when p.Actual is nil.
func (r *SQLiteRepository) UpsertPrediction(ctx context.Context, p core.Prediction) (core.Prediction, error) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	if p.Breakdown == nil {
		p.Breakdown = map[string]int64{}
	}
	breakdown, err := json.Marshal(p.Breakdown)
	if err != nil {
		return core.Prediction{}, fmt.Errorf("encode breakdown: %w", err)
	}
	var actual any
	if p.Actual != nil {
		actual = p.Actual.Minor
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO predictions (user_id, month, predicted_minor, actual_minor, breakdown, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, month) DO UPDATE SET
		     predicted_minor = excluded.predicted_minor,
		     actual_minor    = COALESCE(excluded.actual_minor, predictions.actual_minor),
		     breakdown       = excluded.breakdown,
		     updated_at      = excluded.updated_at`,
		p.UserID, p.Month, p.Predicted.Minor, actual, string(breakdown), toMillis(p.UpdatedAt))
	if err != nil {
		return core.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return r.GetPrediction(ctx, p.UserID, p.Month)
}

// SetPredictionActual records the real total of an elapsed month.
func (r *SQLiteRepository) SetPredictionActual(ctx context.Context, userID int64, month string, actual int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE predictions SET actual_minor = ?, updated_at = ? WHERE user_id = ? AND month = ?`,
		actual, toMillis(time.Now()), userID, month)
	if err != nil {
		return fmt.Errorf("set prediction actual: %w", err)
	}
	if err := expectRow(res); err != nil {
		return fmt.Errorf("prediction %s: %w", month, err)
	}
	return nil
}

func (r *SQLiteRepository) GetPrediction(ctx context.Context, userID int64, month string) (core.Prediction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE user_id = ? AND month = ?`, userID, month)
	p, err := scanPrediction(row)
	if err != nil {
		return core.Prediction{}, fmt.Errorf("get prediction %s: %w", month, notFound(err))
	}
	return p, nil
}

// ListPredictions returns a user's forecasts, latest month first.
func (r *SQLiteRepository) ListPredictions(ctx context.Context, userID int64) ([]core.Prediction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE user_id = ? ORDER BY month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := []core.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
