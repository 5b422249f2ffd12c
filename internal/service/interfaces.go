package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/alexanderramin/ticktrack/internal/tracker"
)

// EntryFilter narrows entry listings. Zero values mean "no restriction".
type EntryFilter struct {
	Task  string
	Since time.Time
	Limit int
}

// TrackerService is the use-case surface the one-shot commands call.
type TrackerService interface {
	Start(ctx context.Context, task string) (domain.TimeEntry, error)
	Stop(ctx context.Context) ([]domain.TimeEntry, error)
	Status(ctx context.Context) (tracker.Snapshot, error)
	Entries(ctx context.Context, f EntryFilter) ([]domain.TimeEntry, error)
	Summaries(ctx context.Context, f EntryFilter) ([]domain.TaskSummary, error)
	Export(ctx context.Context, w io.Writer) error
}
