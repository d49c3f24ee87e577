package observe

import (
	"context"
	"io"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vecmem")

// Observer bundles the logger and tracer used by commands and storage.
type Observer struct {
	log *bolt.Logger
}

// New creates an Observer with console output.
// If verbose is false, only warnings and errors are shown.
func New(out io.Writer, verbose bool) *Observer {
	return &Observer{log: leveled(bolt.New(bolt.NewConsoleHandler(out)), verbose)}
}

// NewJSON creates an Observer with JSON output.
// If verbose is false, only warnings and errors are shown.
func NewJSON(out io.Writer, verbose bool) *Observer {
	return &Observer{log: leveled(bolt.New(bolt.NewJSONHandler(out)), verbose)}
}

// Discard returns a logger that drops everything.
func Discard() *bolt.Logger {
	return leveled(bolt.New(bolt.NewJSONHandler(io.Discard)), false)
}

func leveled(l *bolt.Logger, verbose bool) *bolt.Logger {
	if !verbose {
		l.SetLevel(bolt.WARN)
	}
	return l
}

// Log returns the underlying logger.
func (o *Observer) Log() *bolt.Logger {
	return o.log
}

// StartSpan starts a new OTel span.
func (o *Observer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// Close flushes buffered output. Both handlers write through, so there is
// nothing to flush yet.
func (o *Observer) Close() error {
	return nil
}
