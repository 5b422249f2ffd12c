package store

import (
	"testing"
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func sampleEntries() []domain.TimeEntry {
	end := testStart.Add(90*time.Minute + 250*time.Millisecond)
	return []domain.TimeEntry{
		{ID: "a1", Task: "write", StartTime: testStart, EndTime: &end},
		{ID: "b2", Task: "read", StartTime: testStart.Add(2 * time.Hour)},
	}
}

func TestEncodeEntries_WireFormat(t *testing.T) {
	data, err := EncodeEntries(sampleEntries())
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":"a1","startTime":"2026-03-02T09:00:00.000Z","endTime":"2026-03-02T10:30:00.250Z","task":"write"},
		{"id":"b2","startTime":"2026-03-02T11:00:00.000Z","endTime":null,"task":"read"}
	]`, string(data))
}

func TestDecodeEntries_RoundTrip(t *testing.T) {
	data, err := EncodeEntries(sampleEntries())
	require.NoError(t, err)

	got, err := DecodeEntries(data)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestDecodeEntries_EmptyValues(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		got, err := DecodeEntries([]byte(raw))
		require.NoError(t, err, "raw=%q", raw)
		assert.Empty(t, got, "raw=%q", raw)
	}
}

func TestDecodeEntries_MissingEndTimeIsOpen(t *testing.T) {
	got, err := DecodeEntries([]byte(`[{"id":"x","startTime":"2026-03-02T09:00:00Z","task":"t"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsOpen())
}

func TestDecodeEntries_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"object instead of array", `{"id":"x"}`},
		{"missing id", `[{"startTime":"2026-03-02T09:00:00Z","task":"t"}]`},
		{"bad start", `[{"id":"x","startTime":"yesterday","task":"t"}]`},
		{"bad end", `[{"id":"x","startTime":"2026-03-02T09:00:00Z","endTime":"soon","task":"t"}]`},
		{"end before start", `[{"id":"x","startTime":"2026-03-02T09:00:00Z","endTime":"2026-03-02T08:00:00Z","task":"t"}]`},
		{"duplicate ids", `[{"id":"x","startTime":"2026-03-02T09:00:00Z","endTime":"2026-03-02T09:01:00Z","task":"t"},{"id":"x","startTime":"2026-03-02T09:00:00Z","endTime":"2026-03-02T09:01:00Z","task":"t"}]`},
		{"two open", `[{"id":"x","startTime":"2026-03-02T09:00:00Z","task":"t"},{"id":"y","startTime":"2026-03-02T09:00:00Z","task":"t"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEntries([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrCorruptSlot)
		})
	}
}
