package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/diaslmb/tldv/internal/types"
)

// headerPattern matches one diarized segment header as emitted by the Whisper
// diarization service:
//
//	[SPEAKER_01] [0.03 - 22.88] Hello world.
//
// The trailing text runs until the next header or end of input and may span
// multiple lines.
var headerPattern = regexp.MustCompile(
	`(?s)\[(SPEAKER_\d+)\]\s*\[(\d+\.\d+)\s*-\s*(\d+\.\d+)\]\s*(.+?)(?:\n?\[SPEAKER_|\z)`,
)

// ParseSegments extracts diarized segments from raw transcription text.
// The service embeds literal "<br>" tokens as line breaks; these are
// normalized to newlines before matching. Headers that do not match the
// pattern exactly (bad tag, non-numeric range) are skipped rather than
// reported: parsing is best effort, and no matches at all is a valid result.
func ParseSegments(raw string) []types.Segment {
	cleaned := strings.ReplaceAll(raw, "<br>", "\n")

	var segments []types.Segment
	pos := 0
	for pos < len(cleaned) {
		m := headerPattern.FindStringSubmatchIndex(cleaned[pos:])
		if m == nil {
			break
		}

		tag := cleaned[pos+m[2] : pos+m[3]]
		// The digit-only capture groups cannot fail to parse.
		start, _ := strconv.ParseFloat(cleaned[pos+m[4]:pos+m[5]], 64)
		end, _ := strconv.ParseFloat(cleaned[pos+m[6]:pos+m[7]], 64)
		text := cleaned[pos+m[8] : pos+m[9]]

		segments = append(segments, types.Segment{
			SpeakerID: tag,
			Start:     start,
			End:       end,
			Text:      strings.TrimSpace(text),
		})

		// The pattern's terminator consumes the opening "[SPEAKER_" of the
		// next header; resume at the end of this segment's text so the next
		// header matches in full.
		next := pos + m[9]
		if next <= pos {
			break
		}
		pos = next
	}

	return segments
}
