package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// WhisperClient sends recordings to a Whisper speech-to-text endpoint and
// returns the raw diarized transcription text.
type WhisperClient struct {
	endpoint string
	model    string
	http     *http.Client
}

// NewWhisperClient creates a client for the given Whisper endpoint
// (e.g. http://localhost:8000/v1/audio/transcriptions).
func NewWhisperClient(endpoint, model string, timeoutMinutes int) *WhisperClient {
	if timeoutMinutes <= 0 {
		timeoutMinutes = 30
	}
	return &WhisperClient{
		endpoint: endpoint,
		model:    model,
		http: &http.Client{
			Timeout: time.Duration(timeoutMinutes) * time.Minute,
		},
	}
}

// whisperResponse matches the transcription endpoint's JSON response. The
// text field carries the diarized output with [SPEAKER_xx] headers.
type whisperResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads an audio file and returns the raw transcription text
func (wc *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	log.Printf("Sending %s to Whisper at %s", filepath.Base(audioPath), wc.endpoint)

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %v", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %v", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read audio file: %v", err)
	}
	if wc.model != "" {
		writer.WriteField("model", wc.model)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := wc.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("whisper returned status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse whisper response: %v", err)
	}

	log.Printf("Whisper transcription received (%d bytes of text)", len(parsed.Text))
	return parsed.Text, nil
}
