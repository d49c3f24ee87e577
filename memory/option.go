package memory

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Option customizes a Manager.
type Option func(m *Manager)

// WithLogger sets the logger used for rebuild and eviction events.
func WithLogger(l *bolt.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source used for item timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
