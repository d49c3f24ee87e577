package observe

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_LogsWhenVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, true)
	if obs.Log() == nil {
		t.Fatal("expected non-nil logger")
	}
	obs.Log().Info().Str("id", "abc").Msg("stored item")
	if !strings.Contains(buf.String(), "stored item") {
		t.Errorf("expected output to contain 'stored item', got %q", buf.String())
	}
}

func TestNew_QuietFiltersInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, false)
	obs.Log().Info().Msg("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info should be filtered when not verbose, got %q", buf.String())
	}
	obs.Log().Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn should pass when not verbose, got %q", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := NewJSON(buf, true)
	obs.Log().Info().Int("count", 3).Msg("rebuilt index")
	out := buf.String()
	if !strings.Contains(out, "rebuilt index") || !strings.Contains(out, "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestObserver_StartSpan(t *testing.T) {
	obs := New(&bytes.Buffer{}, false)
	ctx, span := obs.StartSpan(context.Background(), "snapshot.load")
	if ctx == nil || span == nil {
		t.Fatal("expected non-nil context and span")
	}
	span.End()
	if err := obs.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Error().Msg("dropped")
}
