package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/vecmem/internal/observe"
	"github.com/viant/vecmem/memory"
	"github.com/viant/vecmem/snapshot"
	"github.com/viant/vecmem/vector"
	"gopkg.in/yaml.v3"
)

// session is a memory restored from the snapshot file for one command. mem
// is nil when the snapshot is empty and no dimension is known yet.
type session struct {
	obs   *observe.Observer
	store *snapshot.SQLiteStore
	cfg   memory.Config
	mem   *memory.Manager
}

func newObserver(out io.Writer) *observe.Observer {
	if jsonLogs {
		return observe.NewJSON(out, verbose)
	}
	return observe.New(out, verbose)
}

// openSession loads the snapshot into a new Manager. sample is the embedding
// supplied on the command line, if any; it sizes a memory that has neither a
// configured dimension nor stored items.
func openSession(cmd *cobra.Command, sample []float32) (*session, error) {
	ctx := commandContext(cmd)
	obs := newObserver(cmd.ErrOrStderr())
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ctx, span := obs.StartSpan(ctx, "snapshot.load")
	defer span.End()
	store, err := snapshot.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	docs, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	cfg.Dimension = resolveDimension(cfg.Dimension, docs, sample)
	if cfg.Dimension == 0 {
		obs.Log().Debug().Str("db", dbPath).Msg("empty snapshot without dimension")
		return &session{obs: obs, store: store, cfg: cfg}, nil
	}
	mem, err := memory.New(cfg, memory.WithLogger(obs.Log()))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := mem.Restore(docs); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	obs.Log().Debug().Str("db", dbPath).Int("items", len(docs)).Msg("snapshot loaded")
	return &session{obs: obs, store: store, cfg: mem.Config(), mem: mem}, nil
}

func (s *session) save(cmd *cobra.Command) error {
	ctx, span := s.obs.StartSpan(commandContext(cmd), "snapshot.save")
	defer span.End()
	docs := s.mem.Documents()
	if err := s.store.Save(ctx, docs); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.obs.Log().Debug().Str("db", dbPath).Int("items", len(docs)).Msg("snapshot saved")
	return nil
}

func (s *session) close() {
	_ = s.store.Close()
	_ = s.obs.Close()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadConfig() (memory.Config, error) {
	cfg := memory.DefaultConfig(0)
	if configPath != "" {
		loaded, err := memory.LoadConfig(configPath)
		if err != nil {
			return memory.Config{}, err
		}
		cfg = loaded
	}
	if dimension > 0 {
		cfg.Dimension = dimension
	}
	return cfg, nil
}

// resolveDimension picks the configured dimension, then the stored one, then
// the sample length.
func resolveDimension(configured int, docs []vector.Document, sample []float32) int {
	switch {
	case configured > 0:
		return configured
	case len(docs) > 0:
		return len(docs[0].Embedding)
	}
	return len(sample)
}

// parseVector parses a comma separated list of numbers.
func parseVector(text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty vector")
	}
	parts := strings.Split(text, ",")
	out := make([]float32, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("vector element %d: %w", i, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseMetadata turns key=value pairs into a map. Values are decoded as YAML
// scalars so numbers and booleans keep their type.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, want key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		out[key] = value
	}
	return out, nil
}
