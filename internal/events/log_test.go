package events

import (
	"sync"
	"testing"

	"github.com/diaslmb/tldv/internal/types"
)

func TestLog_AppendOrderPreserved(t *testing.T) {
	l := NewLog()
	l.Append("job-1", types.SpeakerEvent{Time: 1, Speaker: "Alice"})
	l.Append("job-1", types.SpeakerEvent{Time: 2, Speaker: "Bob"})
	l.Append("job-2", types.SpeakerEvent{Time: 3, Speaker: "Carol"})

	evs := l.Snapshot("job-1")
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Speaker != "Alice" || evs[1].Speaker != "Bob" {
		t.Errorf("append order not preserved: %+v", evs)
	}
}

func TestLog_SnapshotIsCopy(t *testing.T) {
	l := NewLog()
	l.Append("job-1", types.SpeakerEvent{Time: 1, Speaker: "Alice"})

	evs := l.Snapshot("job-1")
	evs[0].Speaker = "mutated"

	if got := l.Snapshot("job-1"); got[0].Speaker != "Alice" {
		t.Errorf("snapshot mutation leaked into the registry: %+v", got)
	}
}

func TestLog_UnknownJobEmpty(t *testing.T) {
	l := NewLog()
	if evs := l.Snapshot("nope"); len(evs) != 0 {
		t.Errorf("expected no events for unknown job, got %d", len(evs))
	}
}

func TestLog_Drop(t *testing.T) {
	l := NewLog()
	l.Append("job-1", types.SpeakerEvent{Time: 1, Speaker: "Alice"})
	l.Drop("job-1")
	if evs := l.Snapshot("job-1"); len(evs) != 0 {
		t.Errorf("expected no events after Drop, got %d", len(evs))
	}
}

func TestLog_ConcurrentAppend(t *testing.T) {
	l := NewLog()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Append("job-1", types.SpeakerEvent{Time: float64(j), Speaker: "x"})
			}
		}()
	}
	wg.Wait()

	if got := len(l.Snapshot("job-1")); got != 1000 {
		t.Errorf("expected 1000 events, got %d", got)
	}
}
