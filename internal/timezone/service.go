package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

// Service provides timezone lookup functionality
type Service interface {
	// GetTimezone returns the IANA timezone name for the given coordinates
	GetTimezone(latitude, longitude float64) (string, error)
	// LoadLocation returns the location for an IANA timezone name
	LoadLocation(name string) (*time.Location, error)
}

// service implements timezone lookup using tzf
type service struct {
	mu        sync.RWMutex
	locations map[string]*time.Location
}

var (
	finder    tzf.F
	finderErr error
	once      sync.Once
)

// NewService creates a timezone service. The tzf finder is shared and only
// built on the first coordinate lookup because it loads timezone polygons
// into memory (~50MB).
func NewService() Service {
	return &service{
		locations: make(map[string]*time.Location),
	}
}

func defaultFinder() (tzf.F, error) {
	once.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			finderErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		finder = f
	})
	return finder, finderErr
}

// GetTimezone returns the IANA timezone name for the given coordinates
// Returns timezone names like "America/Chicago", "Europe/London", etc.
func (s *service) GetTimezone(latitude, longitude float64) (string, error) {
	f, err := defaultFinder()
	if err != nil {
		return "", err
	}

	timezone := f.GetTimezoneName(longitude, latitude)
	if timezone == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}

	return timezone, nil
}

// LoadLocation wraps time.LoadLocation with a cache, since each call reads
// the zoneinfo database.
func (s *service) LoadLocation(name string) (*time.Location, error) {
	s.mu.RLock()
	loc, ok := s.locations[name]
	s.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone location %s: %w", name, err)
	}

	s.mu.Lock()
	s.locations[name] = loc
	s.mu.Unlock()

	return loc, nil
}
