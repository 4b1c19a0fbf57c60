package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/diaslmb/tldv/internal/types"
)

func newAttributeApp() *fiber.App {
	app := fiber.New()
	app.Post("/attribute", NewAttributeHandler().Handle)
	return app
}

func postAttribute(t *testing.T, app *fiber.App, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/attribute", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestAttributeHandler_EndToEnd(t *testing.T) {
	app := newAttributeApp()

	resp := postAttribute(t, app, AttributeRequest{
		Transcription: "[SPEAKER_01] [0.03 - 22.88]<br> Hello.\n<br><br>[SPEAKER_00] [22.90 - 24.60]<br> World.",
		Events: []types.SpeakerEvent{
			{Time: 5, Speaker: "Alice"},
			{Time: 25, Speaker: "Bob"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Records      []types.TranscriptRecord `json:"records"`
		SegmentCount int                      `json:"segment_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.SegmentCount != 2 {
		t.Fatalf("segment_count = %d, want 2", body.SegmentCount)
	}
	want := []types.TranscriptRecord{
		{Speaker: "Alice", Start: 0.03, End: 22.88, Text: "Hello."},
		{Speaker: "Bob", Start: 22.90, End: 24.60, Text: "World."},
	}
	for i, rec := range body.Records {
		if rec != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, rec, want[i])
		}
	}
}

func TestAttributeHandler_NoMatchesYieldsEmptyList(t *testing.T) {
	app := newAttributeApp()

	resp := postAttribute(t, app, AttributeRequest{
		Transcription: "no headers in here",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Records []types.TranscriptRecord `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Records == nil || len(body.Records) != 0 {
		t.Errorf("records = %v, want empty list", body.Records)
	}
}

func TestAttributeHandler_MissingTranscription(t *testing.T) {
	app := newAttributeApp()

	resp := postAttribute(t, app, AttributeRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
