package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrBlankTask is returned when a task is started with an empty or
// whitespace-only name.
var ErrBlankTask = errors.New("task name must not be blank")

// ErrInvalidTaskName is returned for task names that are not valid UTF-8.
var ErrInvalidTaskName = errors.New("task name must be valid UTF-8")

// ErrEntryClosed is returned when closing an entry that already has an end time.
var ErrEntryClosed = errors.New("time entry already closed")

// TimeEntry is one tracked interval. An entry with a nil EndTime is running.
type TimeEntry struct {
	ID        string
	StartTime time.Time
	EndTime   *time.Time
	Task      string
}

// IsOpen reports whether the entry is still running.
func (e *TimeEntry) IsOpen() bool {
	return e.EndTime == nil
}

// Close sets the end time. An end before the start is clamped to the start.
// An entry can only be closed once.
func (e *TimeEntry) Close(at time.Time) error {
	if e.EndTime != nil {
		return ErrEntryClosed
	}
	if at.Before(e.StartTime) {
		at = e.StartTime
	}
	e.EndTime = &at
	return nil
}

// Duration returns EndTime-StartTime for closed entries and zero for open ones.
func (e *TimeEntry) Duration() time.Duration {
	if e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// Clone returns a deep copy so callers never alias the end time pointer.
func (e TimeEntry) Clone() TimeEntry {
	if e.EndTime != nil {
		end := *e.EndTime
		e.EndTime = &end
	}
	return e
}

// NormalizeTaskName trims surrounding whitespace and rejects blank names and
// names that would not survive a JSON round trip.
func NormalizeTaskName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrBlankTask
	}
	if !utf8.ValidString(trimmed) {
		return "", ErrInvalidTaskName
	}
	return trimmed, nil
}

// CloneEntries deep-copies a slice of entries.
func CloneEntries(entries []TimeEntry) []TimeEntry {
	if entries == nil {
		return nil
	}
	out := make([]TimeEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// OpenEntries returns the indexes of entries without an end time.
func OpenEntries(entries []TimeEntry) []int {
	var idx []int
	for i := range entries {
		if entries[i].IsOpen() {
			idx = append(idx, i)
		}
	}
	return idx
}
