package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/alexanderramin/ticktrack/internal/store"
	"github.com/alexanderramin/ticktrack/internal/tracker"
)

type trackerService struct {
	state    *tracker.State
	observer UseCaseObserver

	loadOnce sync.Once
	loadErr  error
}

// NewTrackerService wraps state. The stored entries are loaded on first use.
func NewTrackerService(state *tracker.State, observers ...UseCaseObserver) TrackerService {
	return &trackerService{state: state, observer: useCaseObserverOrNoop(observers)}
}

func (s *trackerService) ensureLoaded(ctx context.Context) error {
	s.loadOnce.Do(func() {
		s.loadErr = s.state.Load(ctx)
	})
	return s.loadErr
}

func (s *trackerService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *trackerService) Start(ctx context.Context, task string) (entry domain.TimeEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task": task}
	defer func() { s.observe(ctx, "start", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return domain.TimeEntry{}, err
	}
	entry, err = s.state.Start(ctx, task)
	if err == nil {
		fields["entry_id"] = entry.ID
	}
	return entry, err
}

func (s *trackerService) Stop(ctx context.Context) (closed []domain.TimeEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "stop", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	closed, err = s.state.Stop(ctx)
	fields["closed"] = len(closed)
	return closed, err
}

func (s *trackerService) Status(ctx context.Context) (tracker.Snapshot, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return tracker.Snapshot{}, err
	}
	s.state.Tick()
	return s.state.Snapshot(), nil
}

func (s *trackerService) Entries(ctx context.Context, f EntryFilter) ([]domain.TimeEntry, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return filterEntries(s.state.Entries(), f), nil
}

func (s *trackerService) Summaries(ctx context.Context, f EntryFilter) ([]domain.TaskSummary, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if f == (EntryFilter{}) {
		return s.state.Summaries(), nil
	}
	return domain.Summarize(filterEntries(s.state.Entries(), f)), nil
}

func (s *trackerService) Export(ctx context.Context, w io.Writer) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "export", startedAt, fields, err) }()

	if err = s.ensureLoaded(ctx); err != nil {
		return err
	}
	entries := s.state.Entries()
	fields["entries"] = len(entries)

	raw, err := store.EncodeEntries(entries)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("formatting export: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
