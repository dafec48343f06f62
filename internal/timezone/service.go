// Package timezone resolves IANA zone names for resort centers.
package timezone

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/ringsaturn/tzf"
)

// Fallback is stored for resorts whose center falls outside every zone polygon.
const Fallback = "UTC"

// Service provides timezone lookup functionality
type Service interface {
	GetTimezone(latitude, longitude float64) (string, error)
	ForPoint(p orb.Point) string
}

// service implements timezone lookup using tzf
type service struct {
	finder tzf.F
	mu     sync.RWMutex
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService creates or returns the singleton timezone service.
// tzf loads its zone polygons into memory once per process.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// GetTimezone returns the IANA timezone name for the given coordinates
func (s *service) GetTimezone(latitude, longitude float64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := s.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}

	return name, nil
}

// ForPoint returns the zone containing p, or Fallback.
func (s *service) ForPoint(p orb.Point) string {
	name, err := s.GetTimezone(p.Lat(), p.Lon())
	if err != nil {
		return Fallback
	}
	return name
}
