package bootstrap

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/ticktrack/internal/config"
	"github.com/alexanderramin/ticktrack/internal/db"
	"github.com/alexanderramin/ticktrack/internal/metrics"
	"github.com/alexanderramin/ticktrack/internal/store"
	"github.com/alexanderramin/ticktrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRuntime(t *testing.T, cfg config.Config, opts Options) *Runtime {
	t.Helper()
	rt, err := Open(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpen_SQLiteBackendPersistsAcrossRuntimes(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	clock := testutil.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first := openRuntime(t, cfg, Options{Clock: clock.Now})
	_, err := first.Tracker.Start(ctx, "write")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	clock.Advance(time.Minute)
	second := openRuntime(t, cfg, Options{Clock: clock.Now})
	closed, err := second.Tracker.Stop(ctx)
	require.NoError(t, err)

	require.Len(t, closed, 1)
	assert.Equal(t, time.Minute, closed[0].Duration())
	assert.Equal(t, []string{filepath.Join(dir, "ticktrack.db")}, second.WatchPaths)
	assert.IsType(t, metrics.NoopRecorder{}, second.Recorder)
	assert.Nil(t, second.MetricsHandler())
}

func TestOpen_FileBackend(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Store.Backend = store.BackendFile

	rt := openRuntime(t, cfg, Options{})

	_, err := rt.Tracker.Start(context.Background(), "read")
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, rt.Store)
	assert.Equal(t, []string{cfg.Store.File}, rt.WatchPaths)
	assert.FileExists(t, cfg.Store.File)
}

func TestOpen_InMemoryDatabaseIsNotWatched(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Store.DBPath = db.MemoryPath

	rt := openRuntime(t, cfg, Options{})

	assert.Empty(t, rt.WatchPaths)
}

func TestOpen_MetricsListenEnablesPrometheus(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Store.DBPath = db.MemoryPath
	cfg.Metrics.Listen = "127.0.0.1:0"

	rt := openRuntime(t, cfg, Options{})

	assert.IsType(t, &metrics.PrometheusRecorder{}, rt.Recorder)
	assert.NotNil(t, rt.MetricsHandler())
}

func TestOpen_UseCaseLogging(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Store.DBPath = db.MemoryPath
	cfg.Log.Level = "info"
	cfg.Log.UseCases = true
	var logs bytes.Buffer

	rt := openRuntime(t, cfg, Options{LogOutput: &logs})
	_, err := rt.Tracker.Start(context.Background(), "write")
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "use_case=start")
}

func TestOpen_RejectsUnknownBackend(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Store.Backend = "etcd"

	_, err := Open(context.Background(), cfg, Options{})

	assert.ErrorContains(t, err, "unknown store backend")
}

func TestRuntime_NewLiveStateSharesOneScheduler(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Store.DBPath = db.MemoryPath
	rt := openRuntime(t, cfg, Options{})

	a, err := rt.NewLiveState()
	require.NoError(t, err)
	b, err := rt.NewLiveState()
	require.NoError(t, err)
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)

	_, err = a.Start(context.Background(), "write")
	require.NoError(t, err)
	assert.True(t, a.Running())
	assert.NotNil(t, rt.sched)
}
