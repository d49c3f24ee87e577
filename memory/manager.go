package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/viant/vecmem/cache"
	"github.com/viant/vecmem/index"
	"github.com/viant/vecmem/index/bruteforce"
	"github.com/viant/vecmem/index/cluster"
	"github.com/viant/vecmem/internal/observe"
	"github.com/viant/vecmem/vector"
)

// Result is a ranked search hit. Metadata is a copy of the stored map.
type Result struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// Manager is a capacity-bounded vector memory. It is safe for concurrent
// use: mutations take the write lock, searches and reads share the read
// lock.
type Manager struct {
	cfg    Config
	logger *bolt.Logger
	now    func() time.Time

	mu     sync.RWMutex
	table  *vector.Table
	exact  *bruteforce.Index
	approx *cluster.Index
	cache  *cache.Cache[index.Match]

	// built is set once the approximate index reflects some past state of
	// the table. pending and removed record the difference since then.
	built     bool
	pending   map[string]struct{}
	removed   map[string]struct{}
	changes   int
	state     State
	rebuilds  uint64
	evictions uint64
}

// New creates a Manager. cfg is validated and copied.
func New(cfg Config, opts ...Option) (*Manager, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:     cfg,
		logger:  observe.Discard(),
		now:     time.Now,
		table:   vector.NewTable(cfg.Dimension),
		exact:   bruteforce.New(cfg.Metric),
		approx:  cluster.New(cfg.Metric, cfg.Cluster),
		cache:   cache.New[index.Match](cfg.CacheMaxEntries),
		pending: make(map[string]struct{}),
		removed: make(map[string]struct{}),
		state:   Fresh,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.bindExact()
	return m, nil
}

// Config returns the configuration the Manager was built with.
func (m *Manager) Config() Config {
	cfg := m.cfg
	cfg.DefaultImportance = Float64(*m.cfg.DefaultImportance)
	return cfg
}

// Store adds a single item, evicting first when the memory is full, and
// returns its id.
func (m *Manager) Store(embedding []float32, metadata map[string]any) (string, error) {
	if err := m.checkDim(embedding); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.table.Len() + 1 - m.cfg.Capacity)
	id, err := m.appendLocked(embedding, metadata)
	if err != nil {
		return "", err
	}
	m.mutatedLocked()
	return id, nil
}

// BatchStore adds all items or none. Every embedding is validated before
// anything is mutated; eviction runs once for the whole overflow and the
// approximate index is rebuilt once at the end when the collection is large
// enough to use it. metadatas may be nil.
func (m *Manager) BatchStore(embeddings [][]float32, metadatas []map[string]any) ([]string, error) {
	if metadatas != nil && len(metadatas) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d embeddings, %d metadatas", ErrLengthMismatch, len(embeddings), len(metadatas))
	}
	for i, embedding := range embeddings {
		if err := m.checkDim(embedding); err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
	}
	if len(embeddings) > m.cfg.Capacity {
		return nil, fmt.Errorf("%w: %d items, capacity %d", ErrBatchTooLarge, len(embeddings), m.cfg.Capacity)
	}
	if len(embeddings) == 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.table.Len() + len(embeddings) - m.cfg.Capacity)
	ids := make([]string, len(embeddings))
	for i, embedding := range embeddings {
		var metadata map[string]any
		if metadatas != nil {
			metadata = metadatas[i]
		}
		id, err := m.appendLocked(embedding, metadata)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	m.mutatedLocked()
	if m.approximateLocked() {
		if err := m.rebuildLocked("batch"); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// Remove deletes the item with id. It reports false when id is unknown.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.removeLocked(id) {
		return false
	}
	m.mutatedLocked()
	return true
}

// Clear removes every item and resets the index and cache.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.Clear()
	m.approx.Reset()
	m.built = false
	clear(m.pending)
	clear(m.removed)
	m.changes = 0
	m.state = Fresh
	m.cache.Clear()
	m.bindExact()
	m.logger.Debug().Msg("memory cleared")
}

// UsageRatio returns the number of stored items divided by capacity.
func (m *Manager) UsageRatio() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.table.Len()) / float64(m.cfg.Capacity)
}

// Len returns the number of stored items.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.Len()
}

// Get returns a copy of the item with id. Reading an item this way does not
// count as an access.
func (m *Manager) Get(id string) (vector.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.table.Get(id)
	if !ok {
		return vector.Document{}, false
	}
	embedding, _ := m.table.Embedding(id)
	return it.Document(embedding), true
}

// SetImportance updates the importance score used by the importance
// eviction policy. It reports false when id is unknown.
func (m *Manager) SetImportance(id string, importance float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.table.Get(id)
	if !ok {
		return false
	}
	it.Importance = importance
	return true
}

// Documents exports every item in insertion order.
func (m *Manager) Documents() []vector.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.Documents()
}

// Restore replaces the whole collection with docs, preserving ids,
// timestamps, counters and importance. It applies all documents or none.
func (m *Manager) Restore(docs []vector.Document) error {
	if len(docs) > m.cfg.Capacity {
		return fmt.Errorf("%w: %d documents, capacity %d", ErrBatchTooLarge, len(docs), m.cfg.Capacity)
	}
	seen := make(map[string]struct{}, len(docs))
	for i, doc := range docs {
		if err := m.checkDim(doc.Embedding); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if _, ok := seen[doc.ID]; ok || doc.ID == "" {
			return fmt.Errorf("%w: %q", ErrDuplicateID, doc.ID)
		}
		seen[doc.ID] = struct{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.Clear()
	m.approx.Reset()
	m.built = false
	clear(m.pending)
	clear(m.removed)
	for _, doc := range docs {
		if err := m.table.Append(vector.ItemFromDocument(doc), doc.Embedding); err != nil {
			return fmt.Errorf("restore %s: %w", doc.ID, err)
		}
		m.pending[doc.ID] = struct{}{}
	}
	m.changes = len(docs)
	m.mutatedLocked()
	m.logger.Debug().Int("items", len(docs)).Msg("memory restored")
	if m.approximateLocked() {
		return m.rebuildLocked("restore")
	}
	return nil
}

func (m *Manager) checkDim(embedding []float32) error {
	if len(embedding) != m.cfg.Dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), m.cfg.Dimension)
	}
	return nil
}

// appendLocked stores a copy of embedding; NewItem clones the metadata.
func (m *Manager) appendLocked(embedding []float32, metadata map[string]any) (string, error) {
	it := vector.NewItem(metadata, m.now())
	it.Importance = *m.cfg.DefaultImportance
	if err := m.table.Append(it, embedding); err != nil {
		return "", err
	}
	m.pending[it.ID] = struct{}{}
	m.changes++
	return it.ID, nil
}

// removeLocked deletes id from the table and records it against the index.
func (m *Manager) removeLocked(id string) bool {
	if _, ok := m.table.Remove(id); !ok {
		return false
	}
	m.trackRemovedLocked(id)
	return true
}

func (m *Manager) trackRemovedLocked(id string) {
	if _, ok := m.pending[id]; ok {
		delete(m.pending, id)
	} else if m.built {
		m.removed[id] = struct{}{}
	}
	m.changes++
}

// evictLocked removes n items chosen by the eviction policy.
func (m *Manager) evictLocked(n int) {
	if n <= 0 {
		return
	}
	victims := m.cfg.EvictionPolicy.Select(m.table.Items(), n)
	ids := make([]string, len(victims))
	for i, it := range victims {
		ids[i] = it.ID
	}
	for _, it := range m.table.RemoveAll(ids) {
		m.trackRemovedLocked(it.ID)
	}
	m.evictions += uint64(len(victims))
	m.logger.Debug().
		Str("policy", string(m.cfg.EvictionPolicy)).
		Int("evicted", len(victims)).
		Msg("capacity eviction")
}

// mutatedLocked keeps the derived structures consistent after the table
// changed: the exact view is rebound, the cache cleared and the index marked
// stale.
func (m *Manager) mutatedLocked() {
	m.bindExact()
	m.cache.Clear()
	m.state = Stale
}

func (m *Manager) bindExact() {
	// Build only fails on a length mismatch, which the table rules out.
	_ = m.exact.Build(m.table.IDs(), m.table.Matrix())
}

// approximateLocked reports whether searches use the cluster index.
func (m *Manager) approximateLocked() bool {
	return m.table.Len() > m.cfg.ExactSearchThreshold
}

// needsRebuildLocked reports whether the next search must rebuild first.
func (m *Manager) needsRebuildLocked() bool {
	if !m.approximateLocked() {
		return false
	}
	return !m.built || m.changes >= m.cfg.RebuildBatchThreshold
}

// Rebuild forces a synchronous rebuild of the approximate index.
func (m *Manager) Rebuild() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebuildLocked("manual")
}

func (m *Manager) rebuildLocked(reason string) error {
	m.state = Rebuilding
	started := time.Now()
	if err := m.approx.Build(m.table.IDs(), m.table.Matrix()); err != nil {
		m.state = Stale
		m.logger.Error().Err(err).Str("reason", reason).Msg("index rebuild failed")
		return fmt.Errorf("rebuild index: %w", err)
	}
	m.built = true
	clear(m.pending)
	clear(m.removed)
	m.changes = 0
	m.state = Fresh
	m.rebuilds++
	stats := m.approx.Stats()
	m.logger.Info().
		Str("reason", reason).
		Int("items", m.table.Len()).
		Int("nodes", stats.Nodes).
		Int("leaves", stats.Leaves).
		Str("took", time.Since(started).String()).
		Msg("index rebuilt")
	return nil
}
