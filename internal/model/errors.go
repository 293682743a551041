package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyIntersection means two series share no timestamp, so no correlation exists.
	ErrEmptyIntersection = errors.New("series share no timestamps")
	// ErrInvalidCutoff means the SPC high-pass filter would remove nothing or everything.
	ErrInvalidCutoff = errors.New("frequency cutoff must satisfy 0 < cutoff < len(signal)")
	// ErrInsufficientData means there are too few points for the requested detector.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrRequestRejected means a source refused the request itself (4xx other
	// than rate limiting). Retrying or serving older data cannot fix it.
	ErrRequestRejected = errors.New("request rejected by source")
)

// UpstreamFetchError represents a failure of a remote data source
// (weather archive or document store).
type UpstreamFetchError struct {
	Source     string
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Source, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
