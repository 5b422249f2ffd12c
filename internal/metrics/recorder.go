// Package metrics records tracker activity. Components depend on Recorder and
// default to NoopRecorder, so metrics stay optional.
package metrics

import "time"

// StartResult labels the outcome of a start intent.
type StartResult string

const (
	StartAccepted StartResult = "accepted"
	StartSwitched StartResult = "switched"
	StartRejected StartResult = "rejected"
)

// Recorder receives tracker events.
type Recorder interface {
	IncStart(result StartResult)
	IncStop()
	SetRunning(running bool)
	ObserveEntryDuration(d time.Duration)
	ObservePersist(d time.Duration, err error)
	SetEntries(n int)
}

// NoopRecorder ignores everything.
type NoopRecorder struct{}

func (NoopRecorder) IncStart(StartResult) {}
func (NoopRecorder) IncStop() {}
func (NoopRecorder) SetRunning(bool) {}
func (NoopRecorder) ObserveEntryDuration(time.Duration) {}
func (NoopRecorder) ObservePersist(time.Duration, error) {}
func (NoopRecorder) SetEntries(int) {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
