package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Errors surfaced by the client. Quota exhaustion is never among them: it
// is recovered internally by serving mock data.
var (
	ErrInvalidURLFormat   = errors.New("invalid YouTube channel URL format")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid YouTube API credentials")
	ErrNetworkTimeout     = errors.New("network timeout")
	ErrUnknownRemote      = errors.New("unknown remote error")

	errQuotaExceeded = errors.New("quota exceeded")
)

// RemoteError is an unclassified failure reported by the Data API. Message
// is the remote message verbatim.
type RemoteError struct {
	Endpoint   string
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("youtube %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("youtube %s: %s (status %d)", e.Endpoint, e.Message, e.StatusCode)
}

// Unwrap lets errors.Is match ErrUnknownRemote.
func (e *RemoteError) Unwrap() error {
	return ErrUnknownRemote
}

// IsRetryable reports whether a caller may retry the failed operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetworkTimeout)
}

// IsPermanent reports whether retrying can never succeed without a change
// of input or configuration.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidURLFormat) || errors.Is(err, ErrInvalidCredentials)
}

// classify maps a transport or API failure onto the client's error kinds.
func classify(endpoint string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("youtube %s: %w", endpoint, ErrNetworkTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("youtube %s: %w", endpoint, err)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &RemoteError{Endpoint: endpoint, Message: err.Error()}
	}

	reason := ""
	if len(apiErr.Errors) > 0 {
		reason = apiErr.Errors[0].Reason
	}
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.Code)
	}

	switch {
	case reason == "quotaExceeded" || reason == "dailyLimitExceeded":
		return errQuotaExceeded
	case reason == "keyInvalid" || apiErr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: access forbidden: %s", ErrInvalidCredentials, msg)
	case apiErr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrChannelNotFound, msg)
	case apiErr.Code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	default:
		return &RemoteError{Endpoint: endpoint, Message: apiErr.Message, StatusCode: apiErr.Code}
	}
}

// statusCode extracts the HTTP status of a failed call, or 0.
func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
