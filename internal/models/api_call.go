package models

import "time"

// APICall represents a logged remote call to the YouTube Data API.
type APICall struct {
	Timestamp  time.Time
	RequestID  string
	Endpoint   string
	Target     string
	Source     Source
	Error      string
	ID         int64
	Cost       int
	StatusCode int
	DurationMs int
}
