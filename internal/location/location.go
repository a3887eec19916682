package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sunweather/internal/config"
	"sunweather/internal/providers/openstreetmap"
	"sunweather/internal/timezone"
	"sunweather/internal/types"
)

// Service describes the single location the server reports on
type Service interface {
	// Coords returns the configured coordinate
	Coords() types.Coords
	// Timezone returns the zone sun times are displayed in
	Timezone() *time.Location
	// Label returns a human readable place name, falling back to the coordinate
	Label(ctx context.Context) string
}

// ReverseGeocodeProvider defines the interface for location data providers
type ReverseGeocodeProvider interface {
	Lookup(ctx context.Context, latitude, longitude float64) (*openstreetmap.LookupAPIResponse, error)
}

// locationService implements the Service interface
type locationService struct {
	coords           types.Coords
	timezone         *time.Location
	locationProvider ReverseGeocodeProvider
	logger           *slog.Logger

	mu      sync.Mutex
	label   string    // empty until resolved
	retryAt time.Time // earliest next lookup after a failure
	now     func() time.Time
}

// labelRetryInterval spaces out reverse geocoding attempts after a failure
const labelRetryInterval = 5 * time.Minute

// NewLocationService creates a location service with the real geocoding client
func NewLocationService(cfg *config.Config, tzService timezone.Service, logger *slog.Logger) (Service, error) {
	geocoder := openstreetmap.NewClient(cfg.Geocoder.BaseURL, cfg.Upstream.Timeout, logger)
	return NewLocationServiceWithProviders(cfg.Location, tzService, geocoder, logger)
}

// NewLocationServiceWithProviders creates a new location service with custom providers
// This is useful for testing with mock providers
func NewLocationServiceWithProviders(
	cfg config.LocationConfig,
	tzService timezone.Service,
	locationProvider ReverseGeocodeProvider,
	logger *slog.Logger,
) (Service, error) {
	coords := types.NewCoords(cfg.Latitude, cfg.Longitude)
	if err := coords.Validate(); err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}

	logger = logger.With("component", "location-service")

	tzName := strings.TrimSpace(cfg.Timezone)
	if tzName == "" {
		name, err := tzService.GetTimezone(coords.Latitude, coords.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to determine timezone: %w", err)
		}
		logger.Info("determined timezone for location",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"timezone", name,
		)
		tzName = name
	}

	loc, err := tzService.LoadLocation(tzName)
	if err != nil {
		return nil, err
	}

	return &locationService{
		coords:           coords,
		timezone:         loc,
		locationProvider: locationProvider,
		logger:           logger,
		label:            strings.TrimSpace(cfg.Name),
		now:              time.Now,
	}, nil
}

func (s *locationService) Coords() types.Coords {
	return s.coords
}

func (s *locationService) Timezone() *time.Location {
	return s.timezone
}

// Label keeps the first successful reverse geocode. After a failure it
// returns the coordinate string and waits labelRetryInterval before asking
// the geocoder again; the label is cosmetic and never fails a request.
func (s *locationService) Label(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.label != "" {
		return s.label
	}

	fallback := s.coords.String()
	now := s.now()
	if now.Before(s.retryAt) {
		return fallback
	}

	resp, err := s.locationProvider.Lookup(context.WithoutCancel(ctx), s.coords.Latitude, s.coords.Longitude)
	if err != nil {
		s.retryAt = now.Add(labelRetryInterval)
		s.logger.Warn("failed to reverse geocode location, using coordinates",
			"latitude", s.coords.Latitude,
			"longitude", s.coords.Longitude,
			"retry_at", s.retryAt,
			"error", err,
		)
		return fallback
	}

	label := translateLabel(resp)
	if label == "" {
		// nothing better is coming for this coordinate
		label = fallback
	}
	s.label = label
	return s.label
}

// translateLabel picks the most specific place name and appends the state
func translateLabel(resp *openstreetmap.LookupAPIResponse) string {
	name := resp.Address.City
	for _, candidate := range []string{resp.Address.Town, resp.Address.Village, resp.Name, resp.DisplayName} {
		if name != "" {
			break
		}
		name = candidate
	}

	if name == "" || resp.Address.State == "" || name == resp.DisplayName {
		return name
	}
	return name + ", " + resp.Address.State
}
