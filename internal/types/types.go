package types

import "time"

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusRecording  = "RECORDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Source type constants
const (
	SourceMeet   = "meet"
	SourceUpload = "upload"
)

// SpeakerEvent is one observation from the speaker-activity log: at Time
// seconds into the meeting, Speaker was the active speaker. Events come from
// the Meet bot's UI monitor or are pushed over the WebSocket ingest.
type SpeakerEvent struct {
	Time    float64 `json:"time"`
	Speaker string  `json:"speaker"`
}

// Segment is one diarized span of speech before speaker resolution. SpeakerID
// is the anonymous diarization tag (e.g. "SPEAKER_00").
type Segment struct {
	SpeakerID string  `json:"speaker_id"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
}

// TranscriptRecord is a Segment with the diarization tag resolved to a human
// speaker name. The JSON field names are the output document contract.
type TranscriptRecord struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// MeetingResult represents the output of a fully processed meeting
type MeetingResult struct {
	JobID        string
	MeetingName  string
	RawText      string
	Records      []TranscriptRecord
	SpeakerCount int
	Duration     float64
	ProcessedAt  time.Time
	LocalPath    string
	GDriveURL    string
}
