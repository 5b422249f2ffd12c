package service

import (
	"strings"

	"github.com/alexanderramin/ticktrack/internal/domain"
)

// filterEntries applies f to entries, keeping sequence order. Limit keeps
// the most recent matches.
func filterEntries(entries []domain.TimeEntry, f EntryFilter) []domain.TimeEntry {
	task := strings.TrimSpace(f.Task)
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if task != "" && !strings.EqualFold(e.Task, task) {
			continue
		}
		if !f.Since.IsZero() && e.StartTime.Before(f.Since) {
			continue
		}
		out = append(out, e)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
