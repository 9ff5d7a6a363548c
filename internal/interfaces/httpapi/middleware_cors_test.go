package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantSession bool
	}{
		{
			name:        "configured origin",
			allowed:     []string{"https://inspector.example.com"},
			method:      http.MethodPost,
			origin:      "https://inspector.example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://inspector.example.com",
			wantSession: true,
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      "https://inspector.example.com",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantSession: true,
		},
		{
			name:       "unconfigured origin",
			allowed:    []string{"https://allowed.example.com"},
			method:     http.MethodPost,
			origin:     "https://not-allowed.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin header",
			allowed:    []string{"*"},
			method:     http.MethodPost,
			wantStatus: http.StatusOK,
		},
		{
			name:       "blank entries are ignored",
			allowed:    []string{" ", ""},
			method:     http.MethodPost,
			origin:     "https://inspector.example.com",
			wantStatus: http.StatusOK,
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/mcp", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
			exposed := rec.Header().Get("Access-Control-Expose-Headers")
			if tt.wantSession != strings.Contains(exposed, "Mcp-Session-Id") {
				t.Fatalf("unexpected Access-Control-Expose-Headers: %q", exposed)
			}
		})
	}
}
