package storage

import (
	"path/filepath"
	"testing"
)

func TestMetadataDB_SaveAndGet(t *testing.T) {
	db, err := NewMetadataDB(filepath.Join(t.TempDir(), "meetings.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	err = db.SaveMeeting("job-1", "standup", "meet", "", "/tmp/out.json", 1800.5, 42, 3)
	if err != nil {
		t.Fatalf("SaveMeeting failed: %v", err)
	}

	meeting, err := db.GetMeeting("job-1")
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}
	if meeting["meeting_name"] != "standup" {
		t.Errorf("meeting_name = %v, want standup", meeting["meeting_name"])
	}
	if meeting["segment_count"] != 42 {
		t.Errorf("segment_count = %v, want 42", meeting["segment_count"])
	}
	if meeting["speaker_count"] != 3 {
		t.Errorf("speaker_count = %v, want 3", meeting["speaker_count"])
	}
}

func TestMetadataDB_ListOrderedNewestFirst(t *testing.T) {
	db, err := NewMetadataDB(filepath.Join(t.TempDir(), "meetings.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for _, id := range []string{"a", "b", "c"} {
		if err := db.SaveMeeting(id, "m-"+id, "upload", "", "/tmp/"+id, 0, 0, 0); err != nil {
			t.Fatalf("SaveMeeting %s failed: %v", id, err)
		}
	}

	meetings, err := db.ListMeetings(2)
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(meetings) != 2 {
		t.Errorf("expected 2 meetings with limit 2, got %d", len(meetings))
	}
}

func TestMetadataDB_GetMissing(t *testing.T) {
	db, err := NewMetadataDB(filepath.Join(t.TempDir(), "meetings.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.GetMeeting("nope"); err == nil {
		t.Error("expected an error for a missing job id")
	}
}
