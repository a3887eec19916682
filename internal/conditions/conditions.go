// Package conditions joins the current temperature and today's sun times
// for one coordinate.
package conditions

import (
	"context"
	"errors"
	"fmt"

	"sunweather/internal/providers"
	"sunweather/internal/types"
)

// Upstream names reported by ResolutionError
const (
	UpstreamWeather = "weather"
	UpstreamSun     = "sun"
)

// CombinedInfo is built only when both lookups succeed
type CombinedInfo struct {
	SunInfo     types.SunTimes `json:"sunInfo"`
	Temperature float64        `json:"temperature" example:"21.5"` // degrees Celsius
}

// ResolutionError is returned when either lookup fails. Err is the first
// failure observed.
type ResolutionError struct {
	Upstream string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve combined info: %s upstream failed: %v", e.Upstream, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failing upstream ran out of time.
func (e *ResolutionError) Timeout() bool {
	var upstreamErr *providers.UpstreamError
	if errors.As(e.Err, &upstreamErr) {
		return upstreamErr.Timeout()
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}
