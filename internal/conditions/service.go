package conditions

import (
	"context"
	"log/slog"
	"time"

	"sunweather/internal/sun"
	"sunweather/internal/types"
	"sunweather/internal/weather"

	"golang.org/x/sync/errgroup"
)

type Service interface {
	// Resolve fetches the temperature and sun times for coords concurrently
	Resolve(ctx context.Context, coords types.Coords) (*CombinedInfo, error)
}

type conditionsService struct {
	weatherService weather.Service
	sunService     sun.Service
	logger         *slog.Logger
}

func NewConditionsService(weatherService weather.Service, sunService sun.Service, logger *slog.Logger) Service {
	return &conditionsService{
		weatherService: weatherService,
		sunService:     sunService,
		logger:         logger.With("component", "conditions-service"),
	}
}

// Resolve is all-or-nothing. The first failure cancels the sibling call's
// context, and whatever the sibling returns afterwards is dropped.
func (s *conditionsService) Resolve(ctx context.Context, coords types.Coords) (*CombinedInfo, error) {
	var (
		temperature types.Temperature
		sunTimes    types.SunTimes
		start       = time.Now()
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.weatherService.GetTemperature(gctx, coords)
		if err != nil {
			return &ResolutionError{Upstream: UpstreamWeather, Err: err}
		}
		temperature = t
		return nil
	})

	g.Go(func() error {
		st, err := s.sunService.GetSunTimes(gctx, coords)
		if err != nil {
			return &ResolutionError{Upstream: UpstreamSun, Err: err}
		}
		sunTimes = st
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to resolve combined info",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"elapsed", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	s.logger.Debug("resolved combined info",
		"temperature", temperature.Celsius,
		"sunrise", sunTimes.Sunrise,
		"sunset", sunTimes.Sunset,
		"elapsed", time.Since(start),
	)

	return &CombinedInfo{
		SunInfo:     sunTimes,
		Temperature: temperature.Celsius,
	}, nil
}
