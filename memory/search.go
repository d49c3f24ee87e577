package memory

import (
	"fmt"
	"maps"
	"math"

	"github.com/viant/vecmem/index"
)

// Search returns up to k items ranked best first under the configured
// metric, keeping only scores that satisfy threshold. Every returned item
// has its access count incremented once.
//
// When the approximate index has too many pending changes, Search rebuilds
// it before answering.
func (m *Manager) Search(query []float32, k int, threshold float64) ([]Result, error) {
	if err := m.checkDim(query); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	if m.needsRebuildLocked() {
		m.mu.RUnlock()
		if err := m.lazyRebuild(); err != nil {
			return nil, err
		}
		m.mu.RLock()
	}
	defer m.mu.RUnlock()

	if cached, ok := m.cache.Get(query, threshold, k); ok {
		return m.resolveLocked(cached), nil
	}
	var matches []index.Match
	var err error
	if m.approximateLocked() && m.built {
		matches, err = m.approximateSearchLocked(query, k, threshold)
	} else {
		matches, err = m.exact.SearchThreshold(query, k, threshold)
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	m.cache.Put(query, threshold, k, matches)
	return m.resolveLocked(matches), nil
}

func (m *Manager) lazyRebuild() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.needsRebuildLocked() {
		return nil
	}
	m.logger.Debug().Int("pending", m.changes).Msg("lazy index rebuild")
	return m.rebuildLocked("lazy")
}

// approximateSearchLocked rescores the cluster candidates together with the
// items stored since the last rebuild against their true embeddings.
func (m *Manager) approximateSearchLocked(query []float32, k int, threshold float64) ([]index.Match, error) {
	candidates, err := m.approx.Search(query, k)
	if err != nil {
		return nil, err
	}
	scored := make([]index.Scored, 0, len(candidates)+len(m.pending))
	rescore := func(id string) {
		row := m.table.RowOf(id)
		if row < 0 {
			return
		}
		s := m.cfg.Metric.Score(query, m.table.Row(row))
		if math.IsNaN(s) || !m.cfg.Metric.Passes(s, threshold) {
			return
		}
		scored = append(scored, index.Scored{Row: row, ID: id, Score: s})
	}
	for _, c := range candidates {
		if _, gone := m.removed[c.ID]; gone {
			continue
		}
		rescore(c.ID)
	}
	for id := range m.pending {
		rescore(id)
	}
	return index.Top(m.cfg.Metric, scored, k), nil
}

// resolveLocked attaches metadata to matches and records the access.
func (m *Manager) resolveLocked(matches []index.Match) []Result {
	if len(matches) == 0 {
		return nil
	}
	now := m.now()
	out := make([]Result, 0, len(matches))
	for _, match := range matches {
		it, ok := m.table.Get(match.ID)
		if !ok {
			continue
		}
		it.Touch(now)
		out = append(out, Result{ID: match.ID, Score: match.Score, Metadata: maps.Clone(it.Metadata)})
	}
	return out
}
