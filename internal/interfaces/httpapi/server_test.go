package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

type staticStatus []usecase.EntryStatus

func (s staticStatus) Status() []usecase.EntryStatus { return s }

func newTestRouter(token string) http.Handler {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fpl_mcp_up 1\n"))
	})
	status := staticStatus{
		{Category: "bootstrap", Fresh: true, FetchedAt: time.Now()},
		{Category: "fixtures", Fresh: false, FetchedAt: time.Now()},
	}

	return NewRouter(RouterConfig{
		ServiceName: "fpl-mcp",
		MetricsPath: "/metrics",
		Token:       token,
	}, NewHandler("fpl-mcp", "test", status), mcpHandler, metricsHandler, logging.NewNop())
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"status":"ok"`, `"cache_entries":2`, `"fresh_entries":1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "fpl_mcp_up 1") {
		t.Fatalf("unexpected metrics response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_MCPWithoutTokenConfigured(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected request to reach the MCP handler, got %d", rec.Code)
	}
}

func TestRouter_MCPBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret", want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer secret", want: http.StatusAccepted},
		{name: "case insensitive scheme", header: "bearer secret", want: http.StatusAccepted},
	}

	router := newTestRouter("secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"kind":"Unauthorized"`) {
				t.Fatalf("expected Unauthorized envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"kind":"Internal"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
