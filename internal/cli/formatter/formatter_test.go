package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/alexanderramin/ticktrack/internal/testutil"
	"github.com/alexanderramin/ticktrack/internal/tracker"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{12*time.Minute + 30*time.Second, "12m"},
		{time.Hour, "1h"},
		{65 * time.Minute, "1h 5m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "Today", HumanDate(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Today 09:15", HumanTimestamp(time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC), now))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef1234567890")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"TASK", "TOTAL"},
		[][]string{{Bold("write"), "1h"}, {"reading", "5m"}},
	))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	assert.Equal(t, []string{
		"TASK     TOTAL",
		"───────  ─────",
		"write    1h",
		"reading  5m",
	}, lines)
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		width  int
		filled int
	}{
		{"empty", 0, 10, 0},
		{"half", 0.5, 10, 5},
		{"full", 1, 10, 10},
		{"clamps above one", 1.5, 10, 10},
		{"clamps below zero", -0.5, 10, 0},
		{"tiny share still visible", 0.01, 10, 1},
		{"width clamps to two", 1, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := stripANSI(RenderBar(tt.pct, tt.width, StyleGreen))
			assert.Equal(t, tt.filled, strings.Count(bar, filledBlock))
			assert.Equal(t, max(tt.width, 2), strings.Count(bar, filledBlock)+strings.Count(bar, emptyBlock))
		})
	}
}

func TestRenderTotalsChart(t *testing.T) {
	summaries := []domain.TaskSummary{
		{Task: "write", TotalTime: 3 * time.Hour},
		{Task: "read", TotalTime: time.Hour},
	}

	out := stripANSI(RenderTotalsChart(summaries, 8))
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 2)
	assert.Equal(t, "write  ████████  3h (75%)", lines[0])
	assert.Equal(t, "read   ███░░░░░  1h (25%)", lines[1])
	assert.Contains(t, stripANSI(RenderTotalsChart(nil, 0)), "No completed entries")
}

func TestFormatEntries(t *testing.T) {
	closed := testutil.NewTestEntry("write", now.Add(-2*time.Hour), 90*time.Minute, testutil.WithID("0123456789"))
	open := testutil.NewTestEntry("read", now.Add(-10*time.Minute), 0, testutil.Open())

	out := stripANSI(FormatEntries([]domain.TimeEntry{closed, open}, now))

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Today 10:00")
	assert.Contains(t, out, "01:30:00")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "00:10:00")
	assert.Contains(t, stripANSI(FormatEntries(nil, now)), "No entries.")
}

func TestFormatSummaries(t *testing.T) {
	summaries := []domain.TaskSummary{
		{Task: "write", TotalTime: 60 * time.Second},
		{Task: "read", TotalTime: 120 * time.Second},
	}

	plain := stripANSI(FormatSummaries(summaries, false))
	assert.Contains(t, plain, "00:01:00")
	assert.Contains(t, plain, "00:02:00")
	assert.Contains(t, plain, "Total 00:03:00")
	assert.NotContains(t, plain, "CHART")

	charted := stripANSI(FormatSummaries(summaries, true))
	assert.Contains(t, charted, "CHART")
	assert.Contains(t, charted, filledBlock)
}

func TestFormatStatus(t *testing.T) {
	current := testutil.NewTestEntry("write", now.Add(-time.Hour-time.Minute-time.Second), 0, testutil.Open())
	snap := tracker.Snapshot{
		Entries:   []domain.TimeEntry{current},
		Running:   true,
		Current:   &current,
		Elapsed:   time.Hour + time.Minute + time.Second,
		Summaries: []domain.TaskSummary{},
	}

	out := stripANSI(FormatStatus(snap, now))
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "write")
	assert.Contains(t, out, "01:01:01")
	assert.Contains(t, out, "1 entry")

	idle := stripANSI(FormatStatus(tracker.Snapshot{}, now))
	assert.Contains(t, idle, "STOPPED")
	assert.Contains(t, idle, "No task running.")
}

func TestFormatStartedAndStopped(t *testing.T) {
	e := testutil.NewTestEntry("write", now, 90*time.Second)

	assert.Equal(t, "▶ Started write at 12:00:00\n", stripANSI(FormatStarted(e, now)))
	assert.Equal(t, "■ Stopped write 00:01:30\n", stripANSI(FormatStopped([]domain.TimeEntry{e})))
	assert.Equal(t, "No task running.\n", stripANSI(FormatStopped(nil)))
}
