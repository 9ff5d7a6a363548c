package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fpl-mcp/internal/config"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:               config.EnvDev,
		ServiceName:          "fpl-mcp",
		ServiceVersion:       "test",
		Transport:            config.TransportStdio,
		HTTPAddr:             "127.0.0.1:0",
		ReadTimeout:          time.Second,
		WriteTimeout:         time.Second,
		MetricsPath:          "/metrics",
		FPLBaseURL:           "http://127.0.0.1:1/api",
		FPLTimeout:           time.Second,
		FPLBurst:             1,
		CacheTTLBootstrap:    time.Minute,
		CacheTTLFixtures:     time.Minute,
		CacheTTLManagerSquad: time.Minute,
		CacheMaxSquads:       4,
		RefreshRetryInterval: 10 * time.Millisecond,
		SnapshotStore:        config.SnapshotStoreNone,
		RedisKeyPrefix:       "fpl-mcp:snapshot:",
		SnapshotIOTimeout:    time.Second,
		WarmerInterval:       time.Hour,
		WarmerPoolSize:       1,
	}
}

func TestNew_WithoutPersistence(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)
	require.Nil(t, a.warmer)
	require.NoError(t, a.Close())
}

func TestNew_FileSnapshotStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SnapshotStore = config.SnapshotStoreFile
	cfg.SnapshotDir = filepath.Join(t.TempDir(), "snapshots")

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	info, err := os.Stat(cfg.SnapshotDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestNew_RedisSnapshotStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.SnapshotStore = config.SnapshotStoreRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.redis)
	require.NoError(t, a.Close())
}

func TestNew_RedisUnreachable(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SnapshotStore = config.SnapshotStoreRedis
	cfg.RedisURL = "redis://127.0.0.1:1"

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestNew_BuildsWarmerWhenEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.WarmerEnabled = true

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.warmer)
	require.NoError(t, a.Close())
}
