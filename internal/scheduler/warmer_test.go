package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-mcp/internal/platform/cache"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls []cache.Category
	fail  map[cache.Category]error
}

func (f *fakeRefresher) ForceRefresh(_ context.Context, category cache.Category) (usecase.CategoryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, category)
	if err := f.fail[category]; err != nil {
		return usecase.CategoryResult{Category: string(category), Err: err}, err
	}
	return usecase.CategoryResult{Category: string(category), FetchedAt: time.Now()}, nil
}

func (f *fakeRefresher) snapshot() []cache.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cache.Category(nil), f.calls...)
}

type countingFlusher struct {
	calls atomic.Int32
}

func (f *countingFlusher) Teardown(context.Context) error {
	f.calls.Add(1)
	return nil
}

func newTestWarmer(t *testing.T, cfg WarmerConfig, refresher Refresher, flusher Flusher) *Warmer {
	t.Helper()

	w, err := NewWarmer(cfg, refresher, flusher, logging.NewNop())
	require.NoError(t, err)
	return w
}

func TestNewWarmer_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewWarmer(WarmerConfig{Interval: time.Minute}, nil, nil, nil); err == nil {
		t.Fatalf("expected error for missing refresher")
	}
	if _, err := NewWarmer(WarmerConfig{}, &fakeRefresher{}, nil, nil); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestWarmer_WarmRefreshesBootstrapBeforeFixtures(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{}
	w := newTestWarmer(t, WarmerConfig{Interval: time.Hour}, refresher, nil)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Warm(context.Background()))
	require.Equal(t, []cache.Category{cache.CategoryBootstrap, cache.CategoryFixtures}, refresher.snapshot())
}

func TestWarmer_WarmJoinsErrorsAndContinues(t *testing.T) {
	t.Parallel()

	bootstrapErr := errors.New("bootstrap down")
	refresher := &fakeRefresher{fail: map[cache.Category]error{cache.CategoryBootstrap: bootstrapErr}}
	w := newTestWarmer(t, WarmerConfig{Interval: time.Hour}, refresher, nil)
	t.Cleanup(func() { _ = w.Stop() })

	err := w.Warm(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, bootstrapErr)
	require.Equal(t, []cache.Category{cache.CategoryBootstrap, cache.CategoryFixtures}, refresher.snapshot())
}

func TestWarmer_StartRunsImmediately(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{}
	w := newTestWarmer(t, WarmerConfig{Interval: time.Hour, Timeout: 5 * time.Second}, refresher, nil)

	require.NoError(t, w.Start())
	require.Eventually(t, func() bool {
		return len(refresher.snapshot()) == 2
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, w.Stop())
}

func TestWarmer_PeriodicFlush(t *testing.T) {
	t.Parallel()

	flusher := &countingFlusher{}
	w := newTestWarmer(t, WarmerConfig{
		Interval:      time.Hour,
		FlushInterval: 20 * time.Millisecond,
		PoolSize:      2,
		Timeout:       5 * time.Second,
	}, &fakeRefresher{}, flusher)

	require.NoError(t, w.Start())
	require.Eventually(t, func() bool {
		return flusher.calls.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, w.Stop())
}

func TestWarmer_SubmitSkipsWhenPoolBusy(t *testing.T) {
	t.Parallel()

	w := newTestWarmer(t, WarmerConfig{Interval: time.Hour, PoolSize: 1, Timeout: 5 * time.Second}, &fakeRefresher{}, nil)
	t.Cleanup(func() { _ = w.Stop() })

	release := make(chan struct{})
	started := make(chan struct{})
	w.submit("slow", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	var ran atomic.Bool
	w.submit("second", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	close(release)

	require.Never(t, ran.Load, 100*time.Millisecond, 10*time.Millisecond)
}
