package sun

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sunweather/internal/providers"
	"sunweather/internal/providers/sunrisesunset"
	"sunweather/internal/types"
)

type SunTimesProvider interface {
	// GetSunTimes fetches today's sunrise and sunset as UTC ISO 8601 timestamps
	GetSunTimes(ctx context.Context, latitude, longitude float64) (*sunrisesunset.SunTimesAPIResponse, error)
}

type Service interface {
	// GetSunTimes returns sunrise and sunset at coords as HH:MM:SS in the display timezone
	GetSunTimes(ctx context.Context, coords types.Coords) (types.SunTimes, error)
}

type sunService struct {
	provider SunTimesProvider
	location *time.Location
	logger   *slog.Logger
}

// NewSunServiceWithProvider creates a sun service that reports times in location
func NewSunServiceWithProvider(provider SunTimesProvider, location *time.Location, logger *slog.Logger) Service {
	return &sunService{
		provider: provider,
		location: location,
		logger:   logger.With("component", "sun-service"),
	}
}

func (s *sunService) GetSunTimes(ctx context.Context, coords types.Coords) (types.SunTimes, error) {
	if err := coords.Validate(); err != nil {
		return types.SunTimes{}, err
	}

	apiResponse, err := s.provider.GetSunTimes(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		s.logger.Error("failed to get sun times from provider",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"error", err,
		)
		return types.SunTimes{}, fmt.Errorf("failed to get sun times: %w", err)
	}

	sunTimes, err := mapSunTimesAPIResponse(apiResponse, s.location)
	if err != nil {
		s.logger.Error("failed to translate sun times", "error", err)
		return types.SunTimes{}, err
	}

	return sunTimes, nil
}

// mapSunTimesAPIResponse converts the upstream timestamps to local
// time-of-day strings. Whatever offset the upstream used is honoured, so
// the result only depends on the instant and loc.
func mapSunTimesAPIResponse(apiResponse *sunrisesunset.SunTimesAPIResponse, loc *time.Location) (types.SunTimes, error) {
	sunrise, err := toLocalClock(apiResponse.Results.Sunrise, loc)
	if err != nil {
		return types.SunTimes{}, providers.NewUpstreamError("sunrisesunset", "parse sunrise", 0, err)
	}
	sunset, err := toLocalClock(apiResponse.Results.Sunset, loc)
	if err != nil {
		return types.SunTimes{}, providers.NewUpstreamError("sunrisesunset", "parse sunset", 0, err)
	}

	return types.SunTimes{
		Sunrise: sunrise,
		Sunset:  sunset,
	}, nil
}

func toLocalClock(timestamp string, loc *time.Location) (string, error) {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}
	return t.In(loc).Format(types.SunTimesLayout), nil
}
