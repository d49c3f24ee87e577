package memory

import (
	"github.com/viant/vecmem/cache"
	"github.com/viant/vecmem/index/cluster"
)

// State is the lifecycle state of the approximate index.
type State string

const (
	// Fresh means the index reflects every stored item.
	Fresh State = "fresh"
	// Stale means items changed since the last rebuild.
	Stale State = "stale"
	// Rebuilding is held while a rebuild runs under the write lock.
	Rebuilding State = "rebuilding"
)

// IndexState returns the current index lifecycle state.
func (m *Manager) IndexState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats is a point-in-time view of a Manager.
type Stats struct {
	Items          int
	Capacity       int
	UsageRatio     float64
	IndexState     State
	Approximate    bool
	PendingChanges int
	Rebuilds       uint64
	Evictions      uint64
	Index          cluster.Stats
	Cache          cache.Stats
}

// Stats returns counters describing the Manager.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Items:          m.table.Len(),
		Capacity:       m.cfg.Capacity,
		UsageRatio:     float64(m.table.Len()) / float64(m.cfg.Capacity),
		IndexState:     m.state,
		Approximate:    m.approximateLocked(),
		PendingChanges: m.changes,
		Rebuilds:       m.rebuilds,
		Evictions:      m.evictions,
		Index:          m.approx.Stats(),
		Cache:          m.cache.Stats(),
	}
}
