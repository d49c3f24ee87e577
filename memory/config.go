package memory

import (
	"fmt"
	"os"

	"github.com/viant/vecmem/evict"
	"github.com/viant/vecmem/index/cluster"
	"github.com/viant/vecmem/metric"
	"github.com/viant/vecmem/vector"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultCapacity              = 10000
	DefaultExactSearchThreshold  = 1000
	DefaultCacheMaxEntries       = 1000
	DefaultRebuildBatchThreshold = 100
)

// Config configures a Manager. It is copied by New and immutable afterwards.
type Config struct {
	// Dimension is the fixed embedding length.
	Dimension int `yaml:"dimension"`
	// Capacity is the maximum number of stored items.
	Capacity int `yaml:"capacity"`
	// Metric is one of cosine, euclidean, dot_product, manhattan.
	Metric metric.Metric `yaml:"metric"`
	// EvictionPolicy is one of lru, lfu, importance, temporal.
	EvictionPolicy evict.Policy `yaml:"evictionPolicy"`
	// ExactSearchThreshold is the largest collection searched exactly. Zero
	// selects the default; a negative value sends every non-empty collection
	// to the approximate index.
	ExactSearchThreshold int `yaml:"exactSearchThreshold"`
	// CacheMaxEntries caps the query cache; a negative value disables it.
	CacheMaxEntries int `yaml:"cacheMaxEntries"`
	// RebuildBatchThreshold is the number of pending changes that makes the
	// next approximate search rebuild the index.
	RebuildBatchThreshold int `yaml:"rebuildBatchThreshold"`
	// DefaultImportance is assigned to newly stored items; nil selects
	// vector.DefaultImportance.
	DefaultImportance *float64 `yaml:"defaultImportance"`
	// Cluster shapes the approximate index.
	Cluster cluster.Config `yaml:"cluster"`
}

// DefaultConfig returns a configuration for embeddings of length dim.
func DefaultConfig(dim int) Config {
	cfg := Config{Dimension: dim, Capacity: DefaultCapacity}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Metric == "" {
		c.Metric = metric.Cosine
	}
	if c.EvictionPolicy == "" {
		c.EvictionPolicy = evict.LRU
	}
	switch {
	case c.ExactSearchThreshold == 0:
		c.ExactSearchThreshold = DefaultExactSearchThreshold
	case c.ExactSearchThreshold < 0:
		c.ExactSearchThreshold = -1
	}
	if c.CacheMaxEntries == 0 {
		c.CacheMaxEntries = DefaultCacheMaxEntries
	}
	if c.RebuildBatchThreshold <= 0 {
		c.RebuildBatchThreshold = DefaultRebuildBatchThreshold
	}
	importance := vector.DefaultImportance
	if c.DefaultImportance != nil {
		importance = *c.DefaultImportance
	}
	c.DefaultImportance = &importance
	c.Cluster.SetDefaults()
}

// Float64 returns a pointer to v, for optional Config fields.
func Float64(v float64) *float64 { return &v }

// Validate checks the configuration and normalizes metric and policy names.
func (c *Config) Validate() error {
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDimension, c.Dimension)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, c.Capacity)
	}
	m, err := metric.Parse(string(c.Metric))
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	c.Metric = m
	p, err := evict.Parse(string(c.EvictionPolicy))
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	c.EvictionPolicy = p
	return nil
}

// LoadConfig reads a YAML configuration file. Missing fields take their
// defaults; the result is not validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Config{Capacity: DefaultCapacity}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}
