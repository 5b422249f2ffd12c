package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/alexanderramin/ticktrack/internal/tracker"
)

// FormatStatus renders the running state and today's totals as a box.
func FormatStatus(snap tracker.Snapshot, now time.Time) string {
	var b strings.Builder

	b.WriteString(RunningIndicator(snap.Running))
	if snap.Running && snap.Current != nil {
		fmt.Fprintf(&b, "  %s  %s\n", Bold(snap.Current.Task), StyleGreen.Render(domain.FormatElapsed(snap.Elapsed)))
		b.WriteString(Dim("since "+HumanTimestamp(snap.Current.StartTime, now)) + "\n")
	} else {
		b.WriteString("\n" + Dim("No task running.") + "\n")
	}

	total := domain.TotalTime(snap.Summaries)
	fmt.Fprintf(&b, "\n%s %s across %d task(s), %d entr%s\n",
		Dim("Tracked"), Bold(FormatDuration(total)), len(snap.Summaries),
		len(snap.Entries), plural(len(snap.Entries), "y", "ies"))

	return RenderBox("Status", b.String())
}

// FormatStarted is the confirmation printed after a start command.
func FormatStarted(entry domain.TimeEntry, now time.Time) string {
	return fmt.Sprintf("%s %s %s\n", StyleGreen.Render("▶ Started"), Bold(entry.Task),
		Dim("at "+entry.StartTime.In(now.Location()).Format("15:04:05")))
}

// FormatStopped is the confirmation printed after a stop command.
func FormatStopped(closed []domain.TimeEntry) string {
	if len(closed) == 0 {
		return Dim("No task running.") + "\n"
	}
	var b strings.Builder
	for _, e := range closed {
		fmt.Fprintf(&b, "%s %s %s\n", StyleRed.Render("■ Stopped"), Bold(e.Task),
			domain.FormatElapsed(e.Duration()))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
