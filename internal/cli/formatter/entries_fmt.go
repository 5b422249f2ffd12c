package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
)

// FormatEntries renders the entry list, oldest first.
func FormatEntries(entries []domain.TimeEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No entries.") + "\n"
	}
	headers := []string{"ID", "TASK", "START", "END", "DURATION"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		end := StyleGreen.Render("running")
		dur := StyleGreen.Render(domain.FormatElapsed(now.Sub(e.StartTime)))
		if e.EndTime != nil {
			end = HumanTimestamp(*e.EndTime, now)
			dur = domain.FormatElapsed(e.Duration())
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			Bold(e.Task),
			HumanTimestamp(e.StartTime, now),
			end,
			dur,
		})
	}
	return RenderTable(headers, rows)
}

// FormatSummaries renders per-task totals with a grand total line. When
// chart is set the totals chart follows the table.
func FormatSummaries(summaries []domain.TaskSummary, chart bool) string {
	if len(summaries) == 0 {
		return Dim("No completed entries yet.") + "\n"
	}
	headers := []string{"TASK", "TOTAL", "HH:MM:SS"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{Bold(s.Task), FormatDuration(s.TotalTime), domain.FormatElapsed(s.TotalTime)})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	total := domain.TotalTime(summaries)
	b.WriteString("\n" + Dim("Total ") + Bold(domain.FormatElapsed(total)) + "\n")
	if chart {
		b.WriteString("\n" + Header("Chart") + "\n")
		b.WriteString(RenderTotalsChart(summaries, DefaultChartWidth) + "\n")
	}
	return b.String()
}
