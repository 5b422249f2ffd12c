package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
)

// ErrCorruptSlot is returned when a stored entry sequence cannot be decoded
// or violates the entry invariants.
var ErrCorruptSlot = errors.New("corrupt entry slot")

// timestampLayout matches the millisecond ISO-8601 form dates serialize to.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type entryRecord struct {
	ID        string  `json:"id"`
	StartTime string  `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Task      string  `json:"task"`
}

// FormatTimestamp renders t the way entries are persisted.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// EncodeEntries serializes the full entry sequence as a JSON array.
func EncodeEntries(entries []domain.TimeEntry) ([]byte, error) {
	records := make([]entryRecord, len(entries))
	for i, e := range entries {
		rec := entryRecord{
			ID:        e.ID,
			StartTime: FormatTimestamp(e.StartTime),
			Task:      e.Task,
		}
		if e.EndTime != nil {
			end := FormatTimestamp(*e.EndTime)
			rec.EndTime = &end
		}
		records[i] = rec
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding entries: %w", err)
	}
	return data, nil
}

// DecodeEntries parses a serialized entry sequence. An empty or null value
// decodes to an empty sequence. Anything else that is not a valid sequence
// yields an error wrapping ErrCorruptSlot.
func DecodeEntries(data []byte) ([]domain.TimeEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.TimeEntry{}, nil
	}

	var records []entryRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSlot, err)
	}

	entries := make([]domain.TimeEntry, 0, len(records))
	seen := make(map[string]bool, len(records))
	open := 0
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrCorruptSlot, i)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("%w: duplicate entry id %q", ErrCorruptSlot, rec.ID)
		}
		seen[rec.ID] = true

		start, err := time.Parse(time.RFC3339Nano, rec.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q startTime: %v", ErrCorruptSlot, rec.ID, err)
		}
		e := domain.TimeEntry{ID: rec.ID, StartTime: start.UTC(), Task: rec.Task}
		if rec.EndTime != nil {
			end, err := time.Parse(time.RFC3339Nano, *rec.EndTime)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q endTime: %v", ErrCorruptSlot, rec.ID, err)
			}
			if end.Before(start) {
				return nil, fmt.Errorf("%w: entry %q ends before it starts", ErrCorruptSlot, rec.ID)
			}
			end = end.UTC()
			e.EndTime = &end
		} else {
			open++
		}
		entries = append(entries, e)
	}
	if open > 1 {
		return nil, fmt.Errorf("%w: %d entries are open", ErrCorruptSlot, open)
	}
	return entries, nil
}
