package transcript

import (
	"testing"
)

func TestParseSegments_Empty(t *testing.T) {
	if got := ParseSegments(""); len(got) != 0 {
		t.Errorf("expected no segments for empty input, got %d", len(got))
	}
	if got := ParseSegments("just some chatter with no headers"); len(got) != 0 {
		t.Errorf("expected no segments for header-less input, got %d", len(got))
	}
}

func TestParseSegments_SingleSegment(t *testing.T) {
	segs := ParseSegments("[SPEAKER_01] [0.03 - 22.88]<br> Hello world.")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}

	seg := segs[0]
	if seg.SpeakerID != "SPEAKER_01" {
		t.Errorf("speaker id = %q, want SPEAKER_01", seg.SpeakerID)
	}
	if seg.Start != 0.03 {
		t.Errorf("start = %v, want 0.03", seg.Start)
	}
	if seg.End != 22.88 {
		t.Errorf("end = %v, want 22.88", seg.End)
	}
	if seg.Text != "Hello world." {
		t.Errorf("text = %q, want %q", seg.Text, "Hello world.")
	}
}

func TestParseSegments_MultipleSegmentsInOrder(t *testing.T) {
	raw := "[SPEAKER_01] [0.03 - 22.88]<br> Hello.<br><br>[SPEAKER_00] [22.90 - 24.60]<br> Hi back.<br><br>[SPEAKER_01] [24.65 - 30.10]<br> How are you?"

	segs := ParseSegments(raw)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	wantTags := []string{"SPEAKER_01", "SPEAKER_00", "SPEAKER_01"}
	wantTexts := []string{"Hello.", "Hi back.", "How are you?"}
	for i, seg := range segs {
		if seg.SpeakerID != wantTags[i] {
			t.Errorf("segment %d speaker id = %q, want %q", i, seg.SpeakerID, wantTags[i])
		}
		if seg.Text != wantTexts[i] {
			t.Errorf("segment %d text = %q, want %q", i, seg.Text, wantTexts[i])
		}
	}
	if segs[1].Start != 22.90 || segs[1].End != 24.60 {
		t.Errorf("segment 1 range = [%v - %v], want [22.90 - 24.60]", segs[1].Start, segs[1].End)
	}
}

func TestParseSegments_MultilineText(t *testing.T) {
	raw := "[SPEAKER_00] [1.00 - 9.50]<br> First line.<br>Second line.<br><br>[SPEAKER_01] [10.00 - 12.00]<br> Next."

	segs := ParseSegments(raw)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != "First line.\nSecond line." {
		t.Errorf("multiline text = %q, want %q", segs[0].Text, "First line.\nSecond line.")
	}
}

func TestParseSegments_MalformedHeaderSkipped(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"non-numeric range", "[SPEAKER_01] [a - b] nonsense", 0},
		{"missing range", "[SPEAKER_01] nonsense", 0},
		{"bad tag", "[NARRATOR_01] [1.00 - 2.00] nonsense", 0},
		{"integer times", "[SPEAKER_01] [1 - 2] nonsense", 0},
		{
			"malformed between valid",
			"[SPEAKER_00] [0.10 - 1.00]<br> ok one<br>[SPEAKER_xx] [a - b] junk<br>[SPEAKER_01] [2.00 - 3.00]<br> ok two",
			2,
		},
	}

	for _, tc := range cases {
		segs := ParseSegments(tc.raw)
		if len(segs) != tc.want {
			t.Errorf("%s: got %d segments, want %d", tc.name, len(segs), tc.want)
		}
	}
}

func TestParseSegments_WhitespaceTrimmed(t *testing.T) {
	segs := ParseSegments("[SPEAKER_00] [5.00 - 6.00]<br>   padded text   <br><br>")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "padded text" {
		t.Errorf("text = %q, want %q", segs[0].Text, "padded text")
	}
}

func TestParseSegments_NumericRoundTrip(t *testing.T) {
	segs := ParseSegments("[SPEAKER_07] [123.456 - 789.012] exact")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Start != 123.456 {
		t.Errorf("start = %v, want 123.456", segs[0].Start)
	}
	if segs[0].End != 789.012 {
		t.Errorf("end = %v, want 789.012", segs[0].End)
	}
}
