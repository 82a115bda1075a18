package db

// SQL query fragments used across multiple functions
const (
	// sqlTimeFilterClause filters api_calls by a datetime('now', modifier) window
	sqlTimeFilterClause = "WHERE timestamp >= datetime('now', ?)"

	// sqlTimestampLayout is the layout SQLite date functions understand
	sqlTimestampLayout = "2006-01-02 15:04:05"
)
