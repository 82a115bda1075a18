package db

import (
	"context"
	"fmt"
)

func (db *DB) createSchema() error {
	if err := db.createKVTable(); err != nil {
		return err
	}
	if err := db.createAPICallsTable(); err != nil {
		return err
	}
	return db.fixLegacyTimeFormats()
}

func (db *DB) createKVTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createAPICallsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS api_calls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		request_id TEXT,
		endpoint TEXT NOT NULL,
		target TEXT,
		cost INTEGER DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'live',
		status_code INTEGER DEFAULT 200,
		duration_ms INTEGER DEFAULT 0,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_api_calls_timestamp ON api_calls(timestamp);
	CREATE INDEX IF NOT EXISTS idx_api_calls_endpoint ON api_calls(endpoint);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// fixLegacyTimeFormats truncates timestamps written as time.Time strings
// (" +0000 UTC" suffix), which SQLite's date functions cannot compare.
func (db *DB) fixLegacyTimeFormats() error {
	query := `UPDATE api_calls
		 SET timestamp = SUBSTR(timestamp, 1, 19)
		 WHERE length(timestamp) > 19 AND timestamp LIKE '% UTC'`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to fix legacy time formats: %w", err)
	}
	return nil
}
