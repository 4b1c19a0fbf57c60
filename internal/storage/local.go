package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diaslmb/tldv/internal/types"
)

// LocalStorage handles saving attributed transcripts to the local filesystem
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage handler
func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{
		outputDir: outputDir,
	}
}

// SaveTranscript writes the attributed transcript as an indented JSON
// document under a dated directory (outputs/2026/08/31/...). HTML escaping
// is off so non-ASCII speaker names and text are stored verbatim.
func (ls *LocalStorage) SaveTranscript(meetingName string, result *types.MeetingResult) (string, error) {
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %v", err)
	}

	timestamp := now.Format("20060102_150405")
	baseFilename := fmt.Sprintf("%s_%s", timestamp, sanitizeFilename(meetingName))
	path := filepath.Join(dateDir, baseFilename+".json")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create transcript file: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Records); err != nil {
		return "", fmt.Errorf("failed to write transcript: %v", err)
	}

	return path, nil
}

// sanitizeFilename replaces characters that are unsafe in filenames
func sanitizeFilename(name string) string {
	result := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			result = append(result, '_')
		default:
			result = append(result, r)
		}
	}
	if len(result) > 100 {
		result = result[:100]
	}
	return string(result)
}
