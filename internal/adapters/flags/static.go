// Package flags provides a ports.FeatureFlags backed by values fixed at startup.
package flags

import (
	"context"
	"sync"

	"github.com/jsamuelsen/ewbot/internal/platform/config"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

// Static holds flag values in memory. It is safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	bools map[string]bool
}

// NewStatic creates an empty flag set; every lookup returns its default.
func NewStatic() *Static {
	return &Static{bools: make(map[string]bool)}
}

// FromConfig builds the flag set from loaded configuration.
func FromConfig(cfg *config.Config) *Static {
	s := NewStatic()
	s.SetBool(ports.FlagMaintenanceMode, cfg.Maintenance.Enabled())

	return s
}

// SetBool sets a boolean flag.
func (s *Static) SetBool(flag string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bools[flag] = value
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.bools[flag]; ok {
		return v
	}

	return defaultValue
}
