package transcript

import (
	"math"

	"github.com/diaslmb/tldv/internal/types"
)

// Attribute resolves each segment's diarization tag to a speaker name by
// picking the activity-log event nearest in time to the segment start.
//
// With an empty log no attribution is possible and the diarization tag is
// used as the speaker name unchanged. When two events are equally close, the
// first one in the log's slice order wins; callers that care about the
// tie-break must therefore keep the log order stable between runs.
func Attribute(segments []types.Segment, events []types.SpeakerEvent) []types.TranscriptRecord {
	records := make([]types.TranscriptRecord, 0, len(segments))

	for _, seg := range segments {
		speaker := seg.SpeakerID
		if len(events) > 0 {
			speaker = nearestSpeaker(events, seg.Start)
		}
		records = append(records, types.TranscriptRecord{
			Speaker: speaker,
			Start:   seg.Start,
			End:     seg.End,
			Text:    seg.Text,
		})
	}

	return records
}

// nearestSpeaker returns the speaker of the event whose time is closest to t.
// events must be non-empty.
func nearestSpeaker(events []types.SpeakerEvent, t float64) string {
	best := events[0]
	bestDist := math.Abs(best.Time - t)

	for _, ev := range events[1:] {
		if d := math.Abs(ev.Time - t); d < bestDist {
			best = ev
			bestDist = d
		}
	}

	return best.Speaker
}
