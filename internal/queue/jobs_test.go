package queue

import (
	"testing"

	"github.com/diaslmb/tldv/internal/types"
)

func TestNewJob_Defaults(t *testing.T) {
	job := NewJob("id-1", "standup", types.SourceUpload, "/tmp/a.wav")
	if job.Status != types.StatusQueued {
		t.Errorf("status = %q, want %q", job.Status, types.StatusQueued)
	}
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCountSpeakers(t *testing.T) {
	records := []types.TranscriptRecord{
		{Speaker: "Alice"},
		{Speaker: "Bob"},
		{Speaker: "Alice"},
	}
	if got := countSpeakers(records); got != 2 {
		t.Errorf("countSpeakers = %d, want 2", got)
	}
	if got := countSpeakers(nil); got != 0 {
		t.Errorf("countSpeakers(nil) = %d, want 0", got)
	}
}
