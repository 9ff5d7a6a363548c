package httpapi

import (
	"context"
	"testing"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /HEALTHZ ", want: false},
		{path: "/livez", want: false},
		{path: "/readyz", want: false},
		{path: "/metrics", want: false},
		{path: "/mcp", want: true},
		{path: "/", want: true},
		{path: "/unknown", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := shouldTraceRequest(tt.path); got != tt.want {
				t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
			}
		})
	}
}

func TestStartHandlerSpan_WithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startHandlerSpan(ctx, "httpapi.Handler.Healthz")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no recording span without a parent")
	}
}
