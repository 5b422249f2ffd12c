package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/ticktrack/internal/cli/formatter"
	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/alexanderramin/ticktrack/internal/tracker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// visibleEntries is how many of the most recent entries the widget lists.
const visibleEntries = 8

// stateChangedMsg is forwarded from the tracker's notify callback.
type stateChangedMsg struct{ event tracker.Event }

// storeChangedMsg reports that another process rewrote the store.
type storeChangedMsg struct{}

// widgetModel renders a tracker.State and turns keys into tracker calls.
type widgetModel struct {
	ctx     context.Context
	state   *tracker.State
	changes <-chan struct{}
	now     func() time.Time

	input textinput.Model
	keys  widgetKeyMap
	help  help.Model

	snap     tracker.Snapshot
	err      error
	width    int
	quitting bool
}

func newWidgetModel(ctx context.Context, state *tracker.State, changes <-chan struct{}, now func() time.Time) widgetModel {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = "what are you working on?"
	ti.CharLimit = 200
	ti.PromptStyle = formatter.StylePurple
	ti.Focus()

	if now == nil {
		now = time.Now
	}
	snap := state.Snapshot()
	ti.SetValue(snap.PendingInput)

	return widgetModel{
		ctx:     ctx,
		state:   state,
		changes: changes,
		now:     now,
		input:   ti,
		keys:    defaultWidgetKeys(),
		help:    help.New(),
		snap:    snap,
	}
}

// waitForStoreChange blocks until the watcher reports a change.
func waitForStoreChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m widgetModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForStoreChange(m.changes))
}

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateChangedMsg:
		m.snap = m.state.Snapshot()
		return m, nil

	case storeChangedMsg:
		if _, err := m.state.Refresh(m.ctx); err != nil {
			m.err = err
		}
		m.snap = m.state.Snapshot()
		return m, waitForStoreChange(m.changes)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m widgetModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		_, err := m.state.Start(m.ctx, m.input.Value())
		m.err = err
		if !errors.Is(err, domain.ErrBlankTask) && !errors.Is(err, domain.ErrInvalidTaskName) {
			m.input.Reset()
			m.state.SetPendingInput("")
		}
		m.snap = m.state.Snapshot()
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		_, m.err = m.state.Stop(m.ctx)
		m.snap = m.state.Snapshot()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.err = nil
		m.state.SetPendingInput(v)
		m.snap = m.state.Snapshot()
	}
	return m, cmd
}

func (m widgetModel) View() string {
	if m.quitting {
		return ""
	}
	now := m.now()
	var b strings.Builder

	title := formatter.StylePurple.Bold(true).Render("ticktrack")
	b.WriteString(title + "  " + formatter.RunningIndicator(m.snap.Running))
	if m.snap.Running && m.snap.Current != nil {
		b.WriteString("  " + formatter.Bold(m.snap.Current.Task) + "  " +
			formatter.StyleGreen.Render(domain.FormatElapsed(m.snap.Elapsed)))
	} else {
		b.WriteString("  " + formatter.Dim(domain.FormatElapsed(0)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.input.View() + "\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("✖ "+m.err.Error()) + "\n")
	}
	b.WriteString("\n")

	entries := m.snap.Entries
	if len(entries) > visibleEntries {
		entries = entries[len(entries)-visibleEntries:]
	}
	b.WriteString(formatter.Header("Entries") + "\n")
	b.WriteString(formatter.FormatEntries(entries, now) + "\n")

	b.WriteString(formatter.Header("Totals") + "\n")
	chartWidth := formatter.DefaultChartWidth
	if m.width > 0 {
		chartWidth = min(max(m.width/3, 10), 60)
	}
	b.WriteString(formatter.RenderTotalsChart(m.snap.Summaries, chartWidth) + "\n")
	b.WriteString(formatter.Dim("Total ") + formatter.Bold(domain.FormatElapsed(domain.TotalTime(m.snap.Summaries))) + "\n\n")

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
