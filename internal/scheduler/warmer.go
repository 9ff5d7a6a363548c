package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fpl-mcp/internal/platform/cache"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

// Refresher force-refreshes one league-wide cache category.
type Refresher interface {
	ForceRefresh(ctx context.Context, category cache.Category) (usecase.CategoryResult, error)
}

// Flusher persists the current cache contents.
type Flusher interface {
	Teardown(ctx context.Context) error
}

type WarmerConfig struct {
	Interval time.Duration
	PoolSize int
	// Timeout bounds one warm or flush run.
	Timeout time.Duration
	// FlushInterval enables periodic persistence when > 0 and a Flusher is set.
	FlushInterval time.Duration
}

// Warmer refreshes bootstrap and fixtures on a schedule so tool calls rarely
// wait on the upstream. Runs are handed to a bounded worker pool; a tick that
// finds the pool busy is skipped.
type Warmer struct {
	cfg       WarmerConfig
	refresher Refresher
	flusher   Flusher
	logger    *logging.Logger
	scheduler gocron.Scheduler
	pool      *ants.Pool
}

func NewWarmer(cfg WarmerConfig, refresher Refresher, flusher Flusher, logger *logging.Logger) (*Warmer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if refresher == nil {
		return nil, fmt.Errorf("warmer needs a refresher")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("warmer interval must be > 0")
	}
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	pool, err := ants.NewPool(cfg.PoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create warmer pool: %w", err)
	}
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logger),
		gocron.WithStopTimeout(cfg.Timeout),
	)
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Warmer{
		cfg:       cfg,
		refresher: refresher,
		flusher:   flusher,
		logger:    logger,
		scheduler: s,
		pool:      pool,
	}, nil
}

// Start registers the jobs and starts the scheduler. The first warm-up runs
// immediately.
func (w *Warmer) Start() error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.cfg.Interval),
		gocron.NewTask(w.submit, "warm", w.Warm),
		gocron.WithName("cache-warm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("create warm job: %w", err)
	}

	if w.flusher != nil && w.cfg.FlushInterval > 0 {
		_, err = w.scheduler.NewJob(
			gocron.DurationJob(w.cfg.FlushInterval),
			gocron.NewTask(w.submit, "flush", w.flusher.Teardown),
			gocron.WithName("cache-flush"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("create flush job: %w", err)
		}
	}

	w.scheduler.Start()
	w.logger.Info("cache warmer started",
		"interval", w.cfg.Interval.String(),
		"flush_interval", w.cfg.FlushInterval.String(),
		"pool_size", w.cfg.PoolSize,
	)
	return nil
}

// Stop shuts the scheduler down and waits for in-flight runs.
func (w *Warmer) Stop() error {
	err := w.scheduler.Shutdown()
	if releaseErr := w.pool.ReleaseTimeout(w.cfg.Timeout); releaseErr != nil {
		err = errors.Join(err, fmt.Errorf("release warmer pool: %w", releaseErr))
	}
	return err
}

// Warm refreshes bootstrap then fixtures, so fixtures are validated against
// the new generation. Fixtures are attempted even when bootstrap fails.
func (w *Warmer) Warm(ctx context.Context) error {
	var errs []error
	for _, category := range []cache.Category{cache.CategoryBootstrap, cache.CategoryFixtures} {
		started := time.Now()
		result, err := w.refresher.ForceRefresh(ctx, category)
		if err != nil {
			w.logger.WarnContext(ctx, "cache warm failed", "category", string(category), "error", err)
			errs = append(errs, fmt.Errorf("warm %s: %w", category, err))
			continue
		}
		w.logger.DebugContext(ctx, "cache warmed",
			"category", string(category),
			"fetched_at", result.FetchedAt,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	}
	return errors.Join(errs...)
}

func (w *Warmer) submit(name string, run func(context.Context) error) {
	err := w.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
		defer cancel()

		if err := run(ctx); err != nil {
			w.logger.WarnContext(ctx, "scheduled cache job failed", "job", name, "error", err)
		}
	})
	switch {
	case errors.Is(err, ants.ErrPoolOverload):
		w.logger.Warn("scheduled cache job skipped, previous run still busy", "job", name)
	case err != nil:
		w.logger.Error("submit scheduled cache job", "job", name, "error", err)
	}
}
