package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/yjpartners/valet/internal/model"
)

// defaultProject is recorded when a call comes in without a project.
const defaultProject = "default"

// Record prices and stores one API call at the current time, returning
// the USD cost it was booked at.
func (l *Ledger) Record(ctx context.Context, project, modelID string, inputTokens, outputTokens int64) (float64, error) {
	return l.RecordAt(ctx, time.Now(), project, modelID, inputTokens, outputTokens)
}

// RecordAt is Record with an explicit timestamp.
func (l *Ledger) RecordAt(ctx context.Context, at time.Time, project, modelID string, inputTokens, outputTokens int64) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(modelID, "model"); err != nil {
		return 0, err
	}
	if project == "" {
		project = defaultProject
	}

	cost := CalcCost(modelID, inputTokens, outputTokens)

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO api_usage (timestamp, project, model, input_tokens, output_tokens, cost_usd)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		at.Format(timeLayout), project, modelID, inputTokens, outputTokens, cost)
	if err != nil {
		return 0, fmt.Errorf("failed to record usage: %w", err)
	}
	return cost, nil
}

// DayStart is the stored-timestamp bound for "today" relative to t.
func DayStart(t time.Time) string {
	return t.Format("2006-01-02") + " 00:00:00"
}

// MonthStart is the stored-timestamp bound for "this calendar month"
// relative to t.
func MonthStart(t time.Time) string {
	return t.Format("2006-01") + "-01 00:00:00"
}

// SumSince totals cost for records at or after the given bound. An
// empty bound totals everything ever recorded.
func (l *Ledger) SumSince(ctx context.Context, since string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := `SELECT COALESCE(SUM(cost_usd), 0) FROM api_usage`
	var args []any
	if since != "" {
		query += ` WHERE timestamp >= ?`
		args = append(args, since)
	}

	var total float64
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum usage: %w", err)
	}
	return total, nil
}

// TodayTotal returns spend since local midnight.
func (l *Ledger) TodayTotal(ctx context.Context) (float64, error) {
	return l.SumSince(ctx, DayStart(time.Now()))
}

// MonthlyTotal returns spend since the first of the current month.
func (l *Ledger) MonthlyTotal(ctx context.Context) (float64, error) {
	return l.SumSince(ctx, MonthStart(time.Now()))
}

// AllTimeTotal returns everything ever recorded.
func (l *Ledger) AllTimeTotal(ctx context.Context) (float64, error) {
	return l.SumSince(ctx, "")
}

// ModelBreakdown aggregates per-model usage for records at or after
// the bound (empty bound = all time), most expensive model first.
func (l *Ledger) ModelBreakdown(ctx context.Context, since string) ([]model.ModelUsage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT model, COUNT(*), COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost_usd), 0)
		FROM api_usage`
	var args []any
	if since != "" {
		query += ` WHERE timestamp >= ?`
		args = append(args, since)
	}
	query += ` GROUP BY model ORDER BY SUM(cost_usd) DESC`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query model breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ModelUsage
	for rows.Next() {
		var mu model.ModelUsage
		if err := rows.Scan(&mu.Model, &mu.Calls, &mu.InputTokens, &mu.OutputTokens, &mu.CostUSD); err != nil {
			return nil, fmt.Errorf("failed to scan model breakdown: %w", err)
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

// ProjectBreakdown aggregates all-time usage per project, most
// expensive project first.
func (l *Ledger) ProjectBreakdown(ctx context.Context) ([]model.ProjectUsage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT project, COUNT(*), COALESCE(SUM(cost_usd), 0)
		 FROM api_usage GROUP BY project ORDER BY SUM(cost_usd) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query project breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ProjectUsage
	for rows.Next() {
		var pu model.ProjectUsage
		if err := rows.Scan(&pu.Project, &pu.Calls, &pu.CostUSD); err != nil {
			return nil, fmt.Errorf("failed to scan project breakdown: %w", err)
		}
		out = append(out, pu)
	}
	return out, rows.Err()
}

// DailySince aggregates per-day usage for records at or after the
// bound, oldest day first.
func (l *Ledger) DailySince(ctx context.Context, since string) ([]model.DailyUsage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT substr(timestamp, 1, 10) AS day, COUNT(*), COALESCE(SUM(cost_usd), 0)
		FROM api_usage`
	var args []any
	if since != "" {
		query += ` WHERE timestamp >= ?`
		args = append(args, since)
	}
	query += ` GROUP BY day ORDER BY day`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.DailyUsage
	for rows.Next() {
		var du model.DailyUsage
		if err := rows.Scan(&du.Date, &du.Calls, &du.CostUSD); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		out = append(out, du)
	}
	return out, rows.Err()
}

// History returns the most recent records, newest first.
func (l *Ledger) History(ctx context.Context, limit int) ([]model.UsageRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, timestamp, project, model, input_tokens, output_tokens, cost_usd
		 FROM api_usage ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.UsageRecord
	for rows.Next() {
		var rec model.UsageRecord
		var ts string
		if err := rows.Scan(&rec.ID, &ts, &rec.Project, &rec.Model, &rec.InputTokens, &rec.OutputTokens, &rec.CostUSD); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		if parsed, parseErr := time.ParseInLocation(timeLayout, ts, time.Local); parseErr == nil {
			rec.Timestamp = parsed
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
