package events

import (
	"sync"

	"github.com/diaslmb/tldv/internal/types"
)

// Log collects speaker-activity events per job while a meeting is live.
// The Meet bot and the WebSocket ingest both append; the worker snapshots
// the log once the recording is complete. Append order is preserved, which
// matters because attribution breaks nearest-time ties by log order.
type Log struct {
	mu    sync.Mutex
	byJob map[string][]types.SpeakerEvent
}

// NewLog creates an empty event log registry
func NewLog() *Log {
	return &Log{
		byJob: make(map[string][]types.SpeakerEvent),
	}
}

// Append records one speaker event for a job
func (l *Log) Append(jobID string, ev types.SpeakerEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byJob[jobID] = append(l.byJob[jobID], ev)
}

// Snapshot returns a copy of the events recorded for a job, in append order.
// A job with no events returns an empty slice; attribution then falls back
// to the diarization tags.
func (l *Log) Snapshot(jobID string) []types.SpeakerEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	evs := l.byJob[jobID]
	out := make([]types.SpeakerEvent, len(evs))
	copy(out, evs)
	return out
}

// Drop discards a job's events after processing
func (l *Log) Drop(jobID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byJob, jobID)
}
