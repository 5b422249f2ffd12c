// Package ticker provides cancellable repeating tasks.
//
// A Factory hands out one Handle per Every call. Cancelling a handle stops
// further invocations of its function; Cancel is safe to call more than once.
package ticker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Handle is a running repeating task.
type Handle interface {
	Cancel()
}

// Factory creates repeating tasks.
type Factory interface {
	Every(interval time.Duration, fn func()) (Handle, error)
}

// Scheduler runs repeating tasks on a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	closeOnce sync.Once
}

// NewScheduler creates and starts a gocron-backed Scheduler.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}
	s.Start()
	return &Scheduler{scheduler: s}, nil
}

// Every schedules fn to run every interval until the handle is cancelled.
// A run that would overlap a still-running invocation is rescheduled instead.
func (s *Scheduler) Every(interval time.Duration, fn func()) (Handle, error) {
	h := &jobHandle{scheduler: s.scheduler, fn: fn}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(h.fire),
		gocron.WithName("tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduling tick every %s: %w", interval, err)
	}
	h.setID(job.ID())
	return h, nil
}

// Close stops the scheduler and every job it still owns.
func (s *Scheduler) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		slog.DebugContext(ctx, "stopping tick scheduler")
		err = s.scheduler.Shutdown()
	})
	return err
}

type jobHandle struct {
	scheduler gocron.Scheduler
	fn        func()
	cancelled atomic.Bool

	mu sync.Mutex
	id uuid.UUID
}

func (h *jobHandle) setID(id uuid.UUID) {
	h.mu.Lock()
	h.id = id
	h.mu.Unlock()
}

func (h *jobHandle) fire() {
	if h.cancelled.Load() {
		return
	}
	h.fn()
}

func (h *jobHandle) Cancel() {
	if !h.cancelled.CompareAndSwap(false, true) {
		return
	}
	h.mu.Lock()
	id := h.id
	h.mu.Unlock()
	if err := h.scheduler.RemoveJob(id); err != nil {
		slog.Debug("removing tick job", slog.String("job_id", id.String()), slog.Any("error", err))
	}
}
