package models

import "time"

// HourlyStats represents API call statistics grouped by hour.
type HourlyStats struct {
	Hour          time.Time
	TotalCalls    int
	TotalUnits    int
	AvgDurationMs float64
	ErrorCount    int
}

// TotalStats represents API call statistics over a window.
type TotalStats struct {
	TotalCalls    int
	TotalUnits    int
	AvgDurationMs float64
	ErrorCount    int
	UniqueTargets int
}
