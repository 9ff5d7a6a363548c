package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/riskibarqy/fpl-mcp/external/fplapi"
	"github.com/riskibarqy/fpl-mcp/internal/config"
	domainsnapshot "github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/infrastructure/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-mcp/internal/interfaces/mcptool"
	"github.com/riskibarqy/fpl-mcp/internal/observability"
	"github.com/riskibarqy/fpl-mcp/internal/platform/cache"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/platform/resilience"
	"github.com/riskibarqy/fpl-mcp/internal/scheduler"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

// App owns every long-lived component of the server.
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	metrics *observability.Metrics
	refresh *usecase.RefreshService
	server  *mcp.Server
	warmer  *scheduler.Warmer
	redis   *redis.Client
}

// New wires the cache, the upstream client, the query services and the tool
// server, and restores persisted snapshots.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	metrics := observability.NewMetrics()

	client := fplapi.NewClient(fplapi.ClientConfig{
		BaseURL:           cfg.FPLBaseURL,
		Token:             cfg.FPLAPIToken,
		UserAgent:         cfg.FPLUserAgent,
		Timeout:           cfg.FPLTimeout,
		RequestsPerSecond: cfg.FPLRequestsPerSecond,
		Burst:             cfg.FPLBurst,
		Logger:            logger,
		Observer:          metrics.UpstreamRequest,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
			OnStateChange:    metrics.CircuitStateChanged,
		},
	})

	store := cache.NewStore(cache.Config{
		TTLs: map[cache.Category]time.Duration{
			cache.CategoryBootstrap:    cfg.CacheTTLBootstrap,
			cache.CategoryFixtures:     cfg.CacheTTLFixtures,
			cache.CategoryManagerSquad: cfg.CacheTTLManagerSquad,
		},
		MaxScoped: cfg.CacheMaxSquads,
	})

	a := &App{cfg: cfg, logger: logger, metrics: metrics}

	repository, err := a.snapshotRepository(ctx)
	if err != nil {
		return nil, err
	}

	a.refresh = usecase.NewRefreshService(client, store, usecase.RefreshConfig{
		RetryInitialInterval: cfg.RefreshRetryInterval,
		Logger:               logger,
		Observer:             metrics,
		Repository:           repository,
	})

	initCtx, cancel := context.WithTimeout(ctx, cfg.SnapshotIOTimeout)
	defer cancel()
	if err := a.refresh.Init(initCtx); err != nil {
		// a cold cache is still a working cache
		logger.Warn("restore persisted snapshots failed", "error", err)
	}

	handler := mcptool.NewHandler(mcptool.Dependencies{
		Players:  usecase.NewPlayerService(a.refresh),
		Teams:    usecase.NewTeamService(a.refresh),
		Fixtures: usecase.NewFixtureService(a.refresh),
		Squads:   usecase.NewSquadService(a.refresh, cfg.FPLManagerID, logger),
		Cache:    a.refresh,
		Logger:   logger,
		Observer: metrics,
	})
	a.server = mcptool.NewServer(handler, cfg.ServiceName, cfg.ServiceVersion)

	if cfg.WarmerEnabled {
		a.warmer, err = scheduler.NewWarmer(scheduler.WarmerConfig{
			Interval:      cfg.WarmerInterval,
			PoolSize:      cfg.WarmerPoolSize,
			Timeout:       cfg.FPLTimeout * 4,
			FlushInterval: cfg.WarmerFlushInterval,
		}, a.refresh, a.refresh, logger)
		if err != nil {
			_ = a.closeRedis()
			return nil, fmt.Errorf("build cache warmer: %w", err)
		}
	}

	return a, nil
}

func (a *App) snapshotRepository(ctx context.Context) (domainsnapshot.Repository, error) {
	switch a.cfg.SnapshotStore {
	case config.SnapshotStoreFile:
		a.logger.Info("snapshot persistence enabled", "store", a.cfg.SnapshotStore, "dir", a.cfg.SnapshotDir)
		return snapshot.NewFileRepository(a.cfg.SnapshotDir, a.logger), nil
	case config.SnapshotStoreRedis:
		connectCtx, cancel := context.WithTimeout(ctx, a.cfg.SnapshotIOTimeout)
		defer cancel()

		client, err := snapshot.NewRedisClient(connectCtx, a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect snapshot redis: %w", err)
		}
		a.redis = client
		a.logger.Info("snapshot persistence enabled", "store", a.cfg.SnapshotStore, "prefix", a.cfg.RedisKeyPrefix)
		return snapshot.NewRedisRepository(client, a.cfg.RedisKeyPrefix, a.cfg.RedisSnapshotTTL, a.logger), nil
	default:
		return nil, nil
	}
}

// Run serves tool calls over the configured transport until ctx is done or
// the stdio client disconnects.
func (a *App) Run(ctx context.Context) error {
	if a.warmer != nil {
		if err := a.warmer.Start(); err != nil {
			return err
		}
	}

	switch a.cfg.Transport {
	case config.TransportHTTP:
		return a.runHTTP(ctx)
	default:
		a.logger.Info("mcp server starting", "transport", config.TransportStdio)
		err := a.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve stdio: %w", err)
		}
		return nil
	}
}

func (a *App) runHTTP(ctx context.Context) error {
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return a.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	router := httpapi.NewRouter(httpapi.RouterConfig{
		ServiceName:        a.cfg.ServiceName,
		ServiceVersion:     a.cfg.ServiceVersion,
		MCPPath:            "/mcp",
		MetricsPath:        a.cfg.MetricsPath,
		Token:              a.cfg.HTTPToken,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
	}, httpapi.NewHandler(a.cfg.ServiceName, a.cfg.ServiceVersion, a.refresh), mcpHandler, a.metrics.Handler(), a.logger)
	srv := httpapi.NewServer(a.cfg.HTTPAddr, router, a.cfg.ReadTimeout, a.cfg.WriteTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("mcp server starting", "transport", config.TransportHTTP, "addr", a.cfg.HTTPAddr, "token_required", a.cfg.HTTPToken != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.WriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close stops background work and persists the cache.
func (a *App) Close() error {
	var errs []error
	if a.warmer != nil {
		if err := a.warmer.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop cache warmer: %w", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.SnapshotIOTimeout)
	defer cancel()
	if err := a.refresh.Teardown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("persist snapshots: %w", err))
	}
	if err := a.closeRedis(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (a *App) closeRedis() error {
	if a.redis == nil {
		return nil
	}
	if err := a.redis.Close(); err != nil {
		return fmt.Errorf("close snapshot redis: %w", err)
	}
	return nil
}
