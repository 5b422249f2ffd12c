// Package bootstrap wires configuration into a ready-to-use tracker runtime:
// the configured store backend, logging, metrics and the tracker service.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alexanderramin/ticktrack/internal/config"
	"github.com/alexanderramin/ticktrack/internal/db"
	"github.com/alexanderramin/ticktrack/internal/metrics"
	"github.com/alexanderramin/ticktrack/internal/service"
	"github.com/alexanderramin/ticktrack/internal/store"
	"github.com/alexanderramin/ticktrack/internal/ticker"
	"github.com/alexanderramin/ticktrack/internal/tracker"
)

// Options tune Open beyond what the configuration covers.
type Options struct {
	// LogOutput receives structured logs. Nil discards them.
	LogOutput io.Writer
	// Clock replaces time.Now for every tracker state the runtime builds.
	Clock func() time.Time
}

// Runtime owns everything opened for one invocation.
type Runtime struct {
	Config     config.Config
	Store      store.EntryStore
	Logger     *slog.Logger
	Recorder   metrics.Recorder
	Tracker    service.TrackerService
	WatchPaths []string

	prom    *metrics.PrometheusRecorder
	clock   func() time.Time
	closers []func() error

	schedOnce sync.Once
	sched     *ticker.Scheduler
	schedErr  error
}

// Open builds a Runtime for cfg. The caller must Close it.
func Open(ctx context.Context, cfg config.Config, opts Options) (*Runtime, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.DiscardHandler)
	if opts.LogOutput != nil {
		logger = slog.New(slog.NewTextHandler(opts.LogOutput, &slog.HandlerOptions{Level: level}))
	}

	rt := &Runtime{
		Config:   cfg,
		Logger:   logger,
		Recorder: metrics.NoopRecorder{},
		clock:    opts.Clock,
	}
	if cfg.Metrics.Listen != "" {
		rt.prom = metrics.NewPrometheusRecorder(nil)
		rt.Recorder = rt.prom
	}

	if err := rt.openStore(ctx); err != nil {
		return nil, err
	}

	var observer service.UseCaseObserver
	if cfg.Log.UseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}
	rt.Tracker = service.NewTrackerService(rt.newState(), observer)

	logger.Debug("runtime ready", slog.String("backend", cfg.Store.Backend), slog.String("key", cfg.Store.Key))
	return rt, nil
}

func (r *Runtime) openStore(ctx context.Context) error {
	cfg := r.Config.Store
	switch cfg.Backend {
	case store.BackendSQLite:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return err
		}
		s := store.NewSQLiteStore(database, cfg.Key)
		r.Store = s
		r.closers = append(r.closers, s.Close)
		if cfg.DBPath != db.MemoryPath {
			r.WatchPaths = []string{cfg.DBPath}
		}
	case store.BackendFile:
		s := store.NewFileStore(cfg.File, cfg.Key)
		r.Store = s
		r.WatchPaths = []string{s.Path()}
	case store.BackendMySQL:
		s, err := store.OpenMySQLStore(ctx, cfg.DSN, cfg.Key)
		if err != nil {
			return err
		}
		r.Store = s
		r.closers = append(r.closers, s.Close)
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	return nil
}

func (r *Runtime) newState(opts ...tracker.Option) *tracker.State {
	base := []tracker.Option{
		tracker.WithRecorder(r.Recorder),
		tracker.WithLogger(r.Logger),
	}
	if r.clock != nil {
		base = append(base, tracker.WithClock(r.clock))
	}
	return tracker.New(r.Store, append(base, opts...)...)
}

// NewLiveState builds a tracker state whose elapsed time refreshes every
// second on the runtime's scheduler. The scheduler starts on first use.
func (r *Runtime) NewLiveState(opts ...tracker.Option) (*tracker.State, error) {
	r.schedOnce.Do(func() {
		r.sched, r.schedErr = ticker.NewScheduler()
		if r.schedErr == nil {
			r.closers = append(r.closers, func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return r.sched.Close(ctx)
			})
		}
	})
	if r.schedErr != nil {
		return nil, r.schedErr
	}
	return r.newState(append([]tracker.Option{tracker.WithTicker(r.sched)}, opts...)...), nil
}

// MetricsHandler serves the Prometheus registry, or nil when no metrics
// listener is configured.
func (r *Runtime) MetricsHandler() http.Handler {
	if r.prom == nil {
		return nil
	}
	return r.prom.Handler()
}

// Close releases the scheduler and store in reverse order of opening.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
