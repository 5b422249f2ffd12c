package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ticktrack/internal/teatest"
	"github.com/alexanderramin/ticktrack/internal/testutil"
	"github.com/alexanderramin/ticktrack/internal/ticker"
	"github.com/alexanderramin/ticktrack/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetFixture struct {
	*teatest.Driver
	state   *tracker.State
	store   *testutil.MemoryStore
	clock   *testutil.FakeClock
	ticks   *ticker.Manual
	changes chan struct{}
}

func newWidgetFixture(t *testing.T, seed ...tracker.Option) *widgetFixture {
	t.Helper()
	f := &widgetFixture{
		store:   testutil.NewMemoryStore(),
		clock:   testutil.NewFakeClock(testNow),
		ticks:   ticker.NewManual(),
		changes: make(chan struct{}, 1),
	}
	f.state = tracker.New(f.store, append([]tracker.Option{
		tracker.WithClock(f.clock.Now),
		tracker.WithTicker(f.ticks),
	}, seed...)...)
	require.NoError(t, f.state.Load(context.Background()))
	t.Cleanup(f.state.Close)

	m := newWidgetModel(context.Background(), f.state, f.changes, f.clock.Now)
	f.Driver = teatest.New(t, m, teatest.WithSize(100, 40))
	f.Init()
	return f
}

func (f *widgetFixture) model() widgetModel {
	return f.Model.(widgetModel)
}

func TestWidget_InitialView(t *testing.T) {
	f := newWidgetFixture(t)

	view := stripANSI(f.View())
	assert.Contains(t, view, "STOPPED")
	assert.Contains(t, view, "00:00:00")
	assert.Contains(t, view, "No entries.")
	assert.Contains(t, view, "enter")
}

func TestWidget_TypingUpdatesPendingInput(t *testing.T) {
	f := newWidgetFixture(t)

	f.Type("wri")

	assert.Equal(t, "wri", f.state.Snapshot().PendingInput)
	f.PressBackspace()
	assert.Equal(t, "wr", f.state.Snapshot().PendingInput)
	assert.Zero(t, f.store.Saves(), "typing is never persisted")
}

func TestWidget_EnterStartsTask(t *testing.T) {
	f := newWidgetFixture(t)

	f.Type("  write  ")
	f.PressEnter()

	snap := f.state.Snapshot()
	require.True(t, snap.Running)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "write", snap.Entries[0].Task)
	assert.Empty(t, snap.PendingInput)
	assert.Empty(t, f.model().input.Value())
	assert.Equal(t, 1, f.ticks.Active())

	view := stripANSI(f.View())
	assert.Contains(t, view, "RUNNING")
	assert.Contains(t, view, "write")
}

func TestWidget_BlankEnterShowsError(t *testing.T) {
	f := newWidgetFixture(t)

	f.Type("   ")
	f.PressEnter()

	assert.False(t, f.state.Running())
	assert.Empty(t, f.state.Entries())
	assert.Zero(t, f.store.Saves())
	assert.Contains(t, stripANSI(f.View()), "task name must not be blank")

	f.Type("x")
	assert.NotContains(t, stripANSI(f.View()), "must not be blank")
}

func TestWidget_TickRefreshesElapsed(t *testing.T) {
	f := newWidgetFixture(t)
	f.Type("write")
	f.PressEnter()

	f.clock.Advance(3 * time.Second)
	f.ticks.Fire()
	f.Send(stateChangedMsg{event: tracker.EventTick})

	assert.Contains(t, stripANSI(f.View()), "00:00:03")
}

func TestWidget_CtrlSStops(t *testing.T) {
	f := newWidgetFixture(t)
	f.Type("write")
	f.PressEnter()
	f.clock.Advance(90 * time.Second)

	f.Press(tea.KeyCtrlS)

	assert.False(t, f.state.Running())
	assert.Zero(t, f.ticks.Active())
	entries := f.state.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 90*time.Second, entries[0].Duration())
	assert.Contains(t, stripANSI(f.View()), "00:01:30")
}

func TestWidget_QuitCancelsTick(t *testing.T) {
	for _, quit := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		t.Run(quit.String(), func(t *testing.T) {
			f := newWidgetFixture(t)
			f.Type("write")
			f.PressEnter()

			f.Press(quit)

			assert.True(t, f.Quitting)
			assert.Zero(t, f.ticks.Active())
			assert.Empty(t, f.View())
		})
	}
}

func TestWidget_ReloadsOnStoreChange(t *testing.T) {
	f := newWidgetFixture(t)

	other := tracker.New(f.store, tracker.WithClock(f.clock.Now))
	require.NoError(t, other.Load(context.Background()))
	_, err := other.Start(context.Background(), "from elsewhere")
	require.NoError(t, err)

	f.Send(storeChangedMsg{})

	assert.True(t, f.state.Running())
	assert.Equal(t, 1, f.ticks.Active())
	assert.Contains(t, stripANSI(f.View()), "from elsewhere")
}

func TestWidget_OwnSaveDoesNotReload(t *testing.T) {
	f := newWidgetFixture(t)
	f.Type("write")
	f.PressEnter()
	require.Equal(t, 1, f.ticks.Created())

	f.Send(storeChangedMsg{})

	assert.True(t, f.state.Running())
	assert.Equal(t, 1, f.ticks.Created(), "own save must not restart the tick")
	assert.NoError(t, f.model().err)
}

func TestWidget_ResumesOpenEntry(t *testing.T) {
	store := testutil.NewMemoryStore(
		testutil.NewTestEntry("write", testNow.Add(-time.Minute), 0, testutil.Open()),
	)
	state := tracker.New(store, tracker.WithClock(func() time.Time { return testNow }))
	require.NoError(t, state.Load(context.Background()))

	d := teatest.New(t, newWidgetModel(context.Background(), state, nil, func() time.Time { return testNow }))
	d.Init()

	view := stripANSI(d.View())
	assert.Contains(t, view, "RUNNING")
	assert.Contains(t, view, "00:01:00")
}
