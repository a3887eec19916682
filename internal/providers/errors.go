// Package providers holds what the upstream API clients share.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// UpstreamError reports a failed call to an external API. It covers
// transport failures, non-2xx responses, undecodable bodies and missing or
// malformed fields.
type UpstreamError struct {
	Provider   string // e.g. "openweathermap"
	Op         string // e.g. "get current weather"
	StatusCode int    // zero unless the upstream answered
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because it ran out of time.
func (e *UpstreamError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// NewUpstreamError wraps err for provider and op.
func NewUpstreamError(provider, op string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		Op:         op,
		StatusCode: statusCode,
		Err:        err,
	}
}
