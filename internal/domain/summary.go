package domain

import "time"

// TaskSummary is the total closed time recorded against one task.
type TaskSummary struct {
	Task      string
	TotalTime time.Duration
}

// Summarize folds closed entries into per-task totals. Tasks appear in the
// order their first closed entry appears in the sequence. Open entries are
// ignored.
func Summarize(entries []TimeEntry) []TaskSummary {
	index := make(map[string]int)
	var out []TaskSummary
	for i := range entries {
		e := &entries[i]
		if e.IsOpen() {
			continue
		}
		pos, seen := index[e.Task]
		if !seen {
			pos = len(out)
			index[e.Task] = pos
			out = append(out, TaskSummary{Task: e.Task})
		}
		out[pos].TotalTime += e.Duration()
	}
	return out
}

// TotalTime sums the totals of all summaries.
func TotalTime(summaries []TaskSummary) time.Duration {
	var total time.Duration
	for _, s := range summaries {
		total += s.TotalTime
	}
	return total
}
