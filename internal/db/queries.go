package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
)

// InsertAPICall logs an API call to the database.
func (db *DB) InsertAPICall(call *models.APICall) error {
	query := `
		INSERT INTO api_calls (
			timestamp, request_id, endpoint, target, cost, source,
			status_code, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	timestamp := call.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	source := call.Source
	if source == "" {
		source = models.SourceLive
	}

	result, err := db.ExecContext(context.Background(), query,
		timestamp.UTC().Format(sqlTimestampLayout),
		nullString(call.RequestID),
		call.Endpoint,
		nullString(call.Target),
		call.Cost,
		string(source),
		call.StatusCode,
		call.DurationMs,
		nullString(call.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert API call: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		call.ID = id
	}

	return nil
}

// GetRecentAPICalls returns the most recent API calls.
func (db *DB) GetRecentAPICalls(limit int) ([]models.APICall, error) {
	query := `
		SELECT id, timestamp, request_id, endpoint, target, cost, source,
			   status_code, duration_ms, error
		FROM api_calls
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent API calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calls []models.APICall
	for rows.Next() {
		var call models.APICall
		var reqID, target, errStr sql.NullString
		var source string

		err := rows.Scan(
			&call.ID,
			&call.Timestamp,
			&reqID,
			&call.Endpoint,
			&target,
			&call.Cost,
			&source,
			&call.StatusCode,
			&call.DurationMs,
			&errStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API call: %w", err)
		}

		call.RequestID = reqID.String
		call.Target = target.String
		call.Source = models.Source(source)
		call.Error = errStr.String
		calls = append(calls, call)
	}

	return calls, rows.Err()
}

// GetHourlyStats returns call counts and charged units grouped by hour.
func (db *DB) GetHourlyStats(hours int) ([]models.HourlyStats, error) {
	query := `
		SELECT
			strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
			COUNT(*) as total_calls,
			COALESCE(SUM(cost), 0) as total_units,
			COALESCE(AVG(duration_ms), 0) as avg_duration,
			SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) as error_count
		FROM api_calls
		` + sqlTimeFilterClause + `
		GROUP BY hour
		ORDER BY hour DESC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d hours", hours))
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly stats: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var stats []models.HourlyStats
	for rows.Next() {
		var s models.HourlyStats
		var hourStr string

		err := rows.Scan(
			&hourStr,
			&s.TotalCalls,
			&s.TotalUnits,
			&s.AvgDurationMs,
			&s.ErrorCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hourly stats: %w", err)
		}

		s.Hour, _ = time.Parse(sqlTimestampLayout, hourStr)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetTotalStats returns aggregated statistics for calls in the last hours.
func (db *DB) GetTotalStats(hours int) (*models.TotalStats, error) {
	query := `
		SELECT
			COUNT(*) as total_calls,
			COALESCE(SUM(cost), 0) as total_units,
			COALESCE(AVG(duration_ms), 0) as avg_duration,
			COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0) as error_count,
			COUNT(DISTINCT target) as unique_targets
		FROM api_calls
		` + sqlTimeFilterClause

	var stats models.TotalStats
	err := db.QueryRowContext(context.Background(), query, fmt.Sprintf("-%d hours", hours)).Scan(
		&stats.TotalCalls,
		&stats.TotalUnits,
		&stats.AvgDurationMs,
		&stats.ErrorCount,
		&stats.UniqueTargets,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query total stats: %w", err)
	}

	return &stats, nil
}

// CleanupOldAPICalls deletes call log rows older than the given number of days.
func (db *DB) CleanupOldAPICalls(olderThanDays int) (int64, error) {
	result, err := db.ExecContext(context.Background(),
		"DELETE FROM api_calls WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", olderThanDays),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup api calls: %w", err)
	}
	return result.RowsAffected()
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
