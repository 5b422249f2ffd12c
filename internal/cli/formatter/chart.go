package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"

	// DefaultChartWidth is the bar width used when the caller passes zero.
	DefaultChartWidth = 30
)

// RenderBar renders a bar of width cells with pct of them filled, in style.
func RenderBar(pct float64, width int, style lipgloss.Style) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)+0.5), width)
	if pct > 0 && filled == 0 {
		filled = 1
	}
	return style.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// RenderTotalsChart draws one horizontal bar per task, scaled to the largest
// total, followed by the compact total and the task's share of all tracked
// time. Tasks keep the order of summaries.
func RenderTotalsChart(summaries []domain.TaskSummary, width int) string {
	if len(summaries) == 0 {
		return Dim("No completed entries yet.")
	}
	if width <= 0 {
		width = DefaultChartWidth
	}

	var largest time.Duration
	labelWidth := 0
	for _, s := range summaries {
		largest = max(largest, s.TotalTime)
		labelWidth = max(labelWidth, lipgloss.Width(s.Task))
	}
	grand := domain.TotalTime(summaries)

	var b strings.Builder
	for i, s := range summaries {
		scale, share := 0.0, 0.0
		if largest > 0 {
			scale = float64(s.TotalTime) / float64(largest)
		}
		if grand > 0 {
			share = float64(s.TotalTime) / float64(grand)
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(s.Task))
		fmt.Fprintf(&b, "%s%s  %s  %s %s\n",
			StyleFg.Render(s.Task), pad,
			RenderBar(scale, width, TaskColor(i)),
			FormatDuration(s.TotalTime),
			Dim(fmt.Sprintf("(%.0f%%)", share*100)),
		)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
