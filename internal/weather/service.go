package weather

import (
	"context"
	"fmt"
	"log/slog"

	"sunweather/internal/config"
	"sunweather/internal/providers/openweathermap"
	"sunweather/internal/types"
)

type CurrentWeatherProvider interface {
	// GetCurrentWeather fetches current conditions in metric units for the given latitude and longitude
	GetCurrentWeather(ctx context.Context, latitude, longitude float64) (*openweathermap.CurrentWeatherAPIResponse, error)
}

type Service interface {
	// GetTemperature returns the current outdoor temperature at coords
	GetTemperature(ctx context.Context, coords types.Coords) (types.Temperature, error)
}

type weatherService struct {
	provider CurrentWeatherProvider
	logger   *slog.Logger
}

func NewWeatherService(cfg *config.Config, logger *slog.Logger) Service {
	client := openweathermap.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Upstream.Timeout, logger)
	return NewWeatherServiceWithProvider(client, logger)
}

func NewWeatherServiceWithProvider(provider CurrentWeatherProvider, logger *slog.Logger) Service {
	return &weatherService{
		provider: provider,
		logger:   logger.With("component", "weather-service"),
	}
}

func (s *weatherService) GetTemperature(ctx context.Context, coords types.Coords) (types.Temperature, error) {
	if err := coords.Validate(); err != nil {
		return types.Temperature{}, err
	}

	apiResponse, err := s.provider.GetCurrentWeather(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		s.logger.Error("failed to get current weather from provider",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"error", err,
		)
		return types.Temperature{}, fmt.Errorf("failed to get temperature: %w", err)
	}

	return types.NewTemperatureFromCelsius(apiResponse.Main.Temp), nil
}
