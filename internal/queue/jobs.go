package queue

import (
	"time"

	"github.com/diaslmb/tldv/internal/types"
)

// Job represents one meeting to process. For SourceMeet jobs the bot has
// already produced AudioPath and filled the event log; for SourceUpload jobs
// AudioPath is the uploaded recording and Events carries any log supplied
// with the upload.
type Job struct {
	ID          string
	MeetingName string
	SourceType  string
	AudioPath   string
	Events      []types.SpeakerEvent
	Status      string
	Error       error
	Result      *types.MeetingResult
	CreatedAt   time.Time
}

// NewJob creates a new job with default values
func NewJob(id, meetingName, sourceType, audioPath string) *Job {
	return &Job{
		ID:          id,
		MeetingName: meetingName,
		SourceType:  sourceType,
		AudioPath:   audioPath,
		Status:      types.StatusQueued,
		CreatedAt:   time.Now(),
	}
}
