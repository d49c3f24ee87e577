package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/vecmem/metric"
	"github.com/viant/vecmem/vector"
	sqlite "modernc.org/sqlite"
)

// Functions maps the registered SQL function names to the metric each one
// computes.
var Functions = map[string]metric.Metric{
	"vec_cosine": metric.Cosine,
	"vec_l2":     metric.Euclidean,
	"vec_dot":    metric.DotProduct,
	"vec_l1":     metric.Manhattan,
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterVectorFunctions registers vec_cosine, vec_l2, vec_dot and vec_l1
// with the driver. Each takes two embedding BLOBs and returns the metric's
// natural score, or NULL when either argument is NULL.
// Connections opened before the first call do not see the functions.
func RegisterVectorFunctions() error {
	registerOnce.Do(func() {
		for name, m := range Functions {
			if err := sqlite.RegisterDeterministicScalarFunction(name, 2, scalar(name, m)); err != nil {
				registerErr = fmt.Errorf("register %s: %w", name, err)
				return
			}
		}
	})
	return registerErr
}

// FunctionFor returns the SQL function name computing m.
func FunctionFor(m metric.Metric) (string, error) {
	for name, candidate := range Functions {
		if candidate == m {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", metric.ErrUnsupported, string(m))
}

func scalar(name string, m metric.Metric) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, err := asEmbedding(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b, err := asEmbedding(args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if a == nil || b == nil {
			return nil, nil
		}
		if len(a) != len(b) {
			return nil, fmt.Errorf("%s: dim mismatch %d vs %d", name, len(a), len(b))
		}
		return m.Score(a, b), nil
	}
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return vector.DecodeEmbedding(v)
	default:
		return nil, fmt.Errorf("unsupported argument type %T for embedding; want BLOB", arg)
	}
}
