package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

// CacheStatusProvider reports cache entries for the health endpoint.
type CacheStatusProvider interface {
	Status() []usecase.EntryStatus
}

type RouterConfig struct {
	ServiceName        string
	ServiceVersion     string
	MCPPath            string
	MetricsPath        string
	Token              string
	CORSAllowedOrigins []string
}

// Handler serves the non-MCP endpoints.
type Handler struct {
	service string
	version string
	cache   CacheStatusProvider
}

func NewHandler(service, version string, cache CacheStatusProvider) *Handler {
	return &Handler{service: service, version: version, cache: cache}
}

type healthDTO struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	Version      string `json:"version"`
	CacheEntries int    `json:"cache_entries"`
	FreshEntries int    `json:"fresh_entries"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	out := healthDTO{Status: "ok", Service: h.service, Version: h.version}
	if h.cache != nil {
		entries := h.cache.Status()
		out.CacheEntries = len(entries)
		for _, entry := range entries {
			if entry.Fresh {
				out.FreshEntries++
			}
		}
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// NewRouter mounts the MCP handler, metrics and health behind the shared
// middleware chain.
func NewRouter(cfg RouterConfig, handler *Handler, mcpHandler, metricsHandler http.Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	mcpPath := cfg.MCPPath
	if mcpPath == "" {
		mcpPath = "/mcp"
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)

	r.Get("/healthz", handler.Healthz)
	if metricsHandler != nil && cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, metricsHandler)
	}
	r.Handle(mcpPath, RequireBearerToken(cfg.Token, mcpHandler))
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(req.Context(), w, http.StatusNotFound, responseEnvelope{
			Error: &errorBody{Kind: string(usecase.KindNotFound), Message: "route not found"},
		})
	})

	return RequestTracing(cfg.ServiceName, middleware.RequestID(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, r)))))
}

func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
