// Package tracker holds the tracker state: the entry sequence, the running
// flag, the live elapsed time and the pending task-name input.
//
// Mutations happen through Start, Stop, Tick and SetPendingInput. After each
// one the notify callback receives an Event so a presentation layer can
// re-render. While a task runs, State owns a repeating tick handle that is
// cancelled when the task stops or the state is closed.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/alexanderramin/ticktrack/internal/metrics"
	"github.com/alexanderramin/ticktrack/internal/store"
	"github.com/alexanderramin/ticktrack/internal/ticker"
	"github.com/google/uuid"
)

// TickInterval is how often the elapsed time is refreshed while running.
const TickInterval = time.Second

// Event identifies the mutation that triggered a notification.
type Event string

const (
	EventLoaded  Event = "loaded"
	EventStarted Event = "started"
	EventStopped Event = "stopped"
	EventTick    Event = "tick"
	EventInput   Event = "input"
)

// Snapshot is everything a presentation layer needs to render.
type Snapshot struct {
	Entries      []domain.TimeEntry
	Summaries    []domain.TaskSummary
	Running      bool
	Current      *domain.TimeEntry
	Elapsed      time.Duration
	PendingInput string
}

// State is the tracker. The zero value is not usable; call New.
type State struct {
	store    store.EntryStore
	clock    func() time.Time
	newID    func() string
	ticks    ticker.Factory
	interval time.Duration
	notify   func(Event)
	rec      metrics.Recorder
	log      *slog.Logger

	mu           sync.Mutex
	entries      []domain.TimeEntry
	summaries    []domain.TaskSummary
	running      bool
	startInstant *time.Time
	elapsed      time.Duration
	pending      string
	tick         ticker.Handle
}

// Option configures a State.
type Option func(*State)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *State) { s.clock = clock }
}

// WithIDGenerator replaces the uuid-based entry id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *State) { s.newID = gen }
}

// WithTicker enables the live elapsed refresh. Without a factory the
// elapsed time only changes when Tick is called directly.
func WithTicker(f ticker.Factory) Option {
	return func(s *State) { s.ticks = f }
}

// WithTickInterval overrides TickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(s *State) { s.interval = d }
}

// WithNotify registers the render callback. It runs after the state lock is
// released and may call back into State.
func WithNotify(fn func(Event)) Option {
	return func(s *State) { s.notify = fn }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *State) { s.rec = metrics.OrNoop(r) }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty, stopped State persisting to st.
func New(st store.EntryStore, opts ...Option) *State {
	s := &State{
		store:    st,
		clock:    time.Now,
		newID:    uuid.NewString,
		interval: TickInterval,
		rec:      metrics.NoopRecorder{},
		log:      slog.New(slog.DiscardHandler),
		entries:  []domain.TimeEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now is the clock in UTC at the millisecond precision entries persist with.
func (s *State) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// nowLocked is now, floored at the latest instant already recorded. A wall
// clock stepping backwards must not close an entry before it started or begin
// one before the previous entry ended.
func (s *State) nowLocked() time.Time {
	now := s.now()
	floor := now
	if s.startInstant != nil && s.startInstant.After(floor) {
		floor = *s.startInstant
	}
	if n := len(s.entries); n > 0 {
		last := s.entries[n-1]
		if last.StartTime.After(floor) {
			floor = last.StartTime
		}
		if last.EndTime != nil && last.EndTime.After(floor) {
			floor = *last.EndTime
		}
	}
	return floor
}

// Load replaces the in-memory sequence with the stored one. A stored entry
// without an end time resumes the running state and its tick.
func (s *State) Load(ctx context.Context) error {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}
	s.apply(ctx, entries)
	return nil
}

// Refresh is Load for change notifications. When the stored sequence equals
// the in-memory one, as it does after this State's own saves, nothing is
// replaced and no event is emitted. It reports whether the state changed.
func (s *State) Refresh(ctx context.Context) (bool, error) {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading entries: %w", err)
	}
	s.mu.Lock()
	same := sameEntries(s.entries, entries)
	s.mu.Unlock()
	if same {
		return false, nil
	}
	s.apply(ctx, entries)
	return true, nil
}

func (s *State) apply(ctx context.Context, entries []domain.TimeEntry) {
	s.mu.Lock()
	stale := s.detachTickLocked()
	s.entries = entries
	s.running = false
	s.startInstant = nil
	s.elapsed = 0
	if open := domain.OpenEntries(entries); len(open) > 0 {
		start := entries[open[len(open)-1]].StartTime
		s.running = true
		s.startInstant = &start
		s.elapsed = sinceOrZero(s.now(), start)
		s.startTickLocked(ctx)
	}
	s.recomputeLocked()
	running, n := s.running, len(s.entries)
	s.mu.Unlock()

	if stale != nil {
		stale.Cancel()
	}
	s.rec.SetRunning(running)
	s.rec.SetEntries(n)
	s.log.DebugContext(ctx, "entries loaded", slog.Int("entries", n), slog.Bool("running", running))
	s.emit(EventLoaded)
}

// Start begins tracking taskName. A blank name returns domain.ErrBlankTask
// and a name that is not valid UTF-8 returns domain.ErrInvalidTaskName; both
// change nothing. Starting while another task runs closes that entry at
// the same instant the new one begins.
//
// The returned error is non-nil when persisting fails; the in-memory state
// keeps the new entry either way.
func (s *State) Start(ctx context.Context, taskName string) (domain.TimeEntry, error) {
	name, err := domain.NormalizeTaskName(taskName)
	if err != nil {
		s.rec.IncStart(metrics.StartRejected)
		s.log.DebugContext(ctx, "start rejected", slog.String("input", taskName))
		return domain.TimeEntry{}, err
	}

	s.mu.Lock()
	now := s.nowLocked()
	result := metrics.StartAccepted
	for _, i := range domain.OpenEntries(s.entries) {
		_ = s.entries[i].Close(now)
		s.rec.ObserveEntryDuration(s.entries[i].Duration())
		result = metrics.StartSwitched
	}

	entry := domain.TimeEntry{ID: s.newID(), StartTime: now, Task: name}
	s.entries = append(s.entries, entry)
	s.running = true
	s.startInstant = &now
	s.elapsed = 0
	s.recomputeLocked()
	s.startTickLocked(ctx)
	err = s.persistLocked(ctx)
	n := len(s.entries)
	s.mu.Unlock()

	s.rec.IncStart(result)
	s.rec.SetRunning(true)
	s.rec.SetEntries(n)
	s.log.InfoContext(ctx, "task started",
		slog.String("task", name),
		slog.String("entry_id", entry.ID),
		slog.Bool("switched", result == metrics.StartSwitched))
	s.emit(EventStarted)
	return entry, err
}

// Stop closes the running entry. It returns the entries it closed, which is
// nil when nothing was running; in that case nothing is persisted.
func (s *State) Stop(ctx context.Context) ([]domain.TimeEntry, error) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil, nil
	}

	s.running = false
	s.elapsed = 0
	handle := s.detachTickLocked()

	var closed []domain.TimeEntry
	if s.startInstant != nil {
		now := s.nowLocked()
		for _, i := range domain.OpenEntries(s.entries) {
			_ = s.entries[i].Close(now)
			closed = append(closed, s.entries[i].Clone())
		}
		s.startInstant = nil
	}
	s.recomputeLocked()
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
	for _, e := range closed {
		s.rec.ObserveEntryDuration(e.Duration())
		s.log.InfoContext(ctx, "task stopped",
			slog.String("task", e.Task),
			slog.String("entry_id", e.ID),
			slog.Duration("duration", e.Duration()))
	}
	s.rec.IncStop()
	s.rec.SetRunning(false)
	s.emit(EventStopped)
	return closed, err
}

// Tick refreshes the elapsed time of the running entry. It does nothing
// while stopped.
func (s *State) Tick() {
	s.mu.Lock()
	if !s.running || s.startInstant == nil {
		s.mu.Unlock()
		return
	}
	s.elapsed = sinceOrZero(s.now(), *s.startInstant)
	s.mu.Unlock()
	s.emit(EventTick)
}

// SetPendingInput records the raw task-name input. No validation happens
// until Start.
func (s *State) SetPendingInput(input string) {
	s.mu.Lock()
	s.pending = input
	s.mu.Unlock()
	s.emit(EventInput)
}

// Close cancels the tick. It is safe to call more than once.
func (s *State) Close() {
	s.mu.Lock()
	handle := s.detachTickLocked()
	s.mu.Unlock()
	if handle != nil {
		handle.Cancel()
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Entries:      domain.CloneEntries(s.entries),
		Summaries:    append([]domain.TaskSummary(nil), s.summaries...),
		Running:      s.running,
		Elapsed:      s.elapsed,
		PendingInput: s.pending,
	}
	if open := domain.OpenEntries(s.entries); len(open) > 0 {
		cur := s.entries[open[len(open)-1]].Clone()
		snap.Current = &cur
	}
	return snap
}

// Entries returns a copy of the entry sequence.
func (s *State) Entries() []domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneEntries(s.entries)
}

// Summaries returns the per-task totals over closed entries.
func (s *State) Summaries() []domain.TaskSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TaskSummary(nil), s.summaries...)
}

// Running reports whether a task is being tracked.
func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *State) recomputeLocked() {
	s.summaries = domain.Summarize(s.entries)
}

func (s *State) persistLocked(ctx context.Context) error {
	started := time.Now()
	err := s.store.Save(ctx, domain.CloneEntries(s.entries))
	s.rec.ObservePersist(time.Since(started), err)
	if err != nil {
		s.log.ErrorContext(ctx, "persisting entries failed", slog.Any("error", err))
		return fmt.Errorf("persisting entries: %w", err)
	}
	return nil
}

func (s *State) startTickLocked(ctx context.Context) {
	if s.ticks == nil || s.tick != nil {
		return
	}
	h, err := s.ticks.Every(s.interval, s.Tick)
	if err != nil {
		s.log.WarnContext(ctx, "elapsed refresh unavailable", slog.Any("error", err))
		return
	}
	s.tick = h
}

// detachTickLocked clears the tick handle and returns it so the caller can
// cancel it after releasing the lock.
func (s *State) detachTickLocked() ticker.Handle {
	h := s.tick
	s.tick = nil
	return h
}

func (s *State) emit(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}

func sameEntries(a, b []domain.TimeEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Task != y.Task || !x.StartTime.Equal(y.StartTime) {
			return false
		}
		if (x.EndTime == nil) != (y.EndTime == nil) {
			return false
		}
		if x.EndTime != nil && !x.EndTime.Equal(*y.EndTime) {
			return false
		}
	}
	return true
}

func sinceOrZero(now, start time.Time) time.Duration {
	if d := now.Sub(start); d > 0 {
		return d
	}
	return 0
}
