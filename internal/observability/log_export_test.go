package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/fpl-mcp/internal/platform/cache"
)

func TestIsProbeRequestLog(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "health check", msg: "http_request", args: []any{"http_method", "GET", "http_path", "/healthz"}, want: true},
		{name: "metrics scrape", msg: "http_request", args: []any{"http_path", "/metrics"}, want: true},
		{name: "tool traffic", msg: "http_request", args: []any{"http_path", "/mcp"}},
		{name: "other event", msg: "tool call finished", args: []any{"http_path", "/healthz"}},
		{name: "non string path", msg: "http_request", args: []any{"http_path", 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isProbeRequestLog(tt.msg, tt.args); got != tt.want {
				t.Fatalf("isProbeRequestLog=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"tool", "get_player", "attempt", 2, "fpl_api_token", "abc", "payload"})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "tool" || attrs[0].Value.AsString() != "get_player" {
		t.Fatalf("unexpected tool attribute")
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[2].Value.AsString() != redacted {
		t.Fatalf("expected token value to be masked, got %q", attrs[2].Value.AsString())
	}
	if attrs[3].Key != "payload" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestLogValue(t *testing.T) {
	if v := logValue(errors.New("boom"), 0); v.AsString() != "boom" {
		t.Fatalf("expected error text, got %v", v)
	}
	if v := logValue(1500*time.Millisecond, 0); v.AsString() != "1.5s" {
		t.Fatalf("expected duration text, got %v", v)
	}
	if v := logValue(uint8(7), 0); v.AsInt64() != 7 {
		t.Fatalf("expected small unsigned ints as int64, got %v", v)
	}
	if v := logValue(cache.CategoryFixtures, 0); v.AsString() != "fixtures" {
		t.Fatalf("expected named string kinds as text, got %v", v)
	}

	m := logValue(map[string]any{"hits": 11, "fresh": true}, 0)
	if m.Kind() != otellog.KindMap || len(m.AsMap()) != 2 {
		t.Fatalf("expected map value with 2 items, got %v", m)
	}
	if got := m.AsMap()[0].Key; got != "fresh" {
		t.Fatalf("expected sorted map keys, first was %q", got)
	}
}

func TestOTelSeverity(t *testing.T) {
	if otelSeverity(zapcore.DebugLevel) != otellog.SeverityDebug {
		t.Fatalf("unexpected debug severity")
	}
	if otelSeverity(zapcore.WarnLevel) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if otelSeverity(zapcore.ErrorLevel) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}
