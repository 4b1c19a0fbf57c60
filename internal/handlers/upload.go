package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diaslmb/tldv/internal/queue"
	"github.com/diaslmb/tldv/internal/transcription"
	"github.com/diaslmb/tldv/internal/types"
)

// UploadHandler handles recording uploads with an optional speaker-event log
type UploadHandler struct {
	workerPool *queue.WorkerPool
	tempDir    string
	maxSizeMB  int
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(workerPool *queue.WorkerPool, tempDir string, maxSizeMB int) *UploadHandler {
	return &UploadHandler{
		workerPool: workerPool,
		tempDir:    tempDir,
		maxSizeMB:  maxSizeMB,
	}
}

// Handle processes the upload request. The multipart form carries the
// recording under "file", an optional meeting name under "name", and an
// optional speaker-activity log under "events" as a JSON array of
// {time, speaker} objects.
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "No file uploaded",
			"code":  "ERR_NO_FILE",
		})
	}

	meetingName := c.FormValue("name")
	if meetingName == "" {
		meetingName = "untitled"
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB),
			"code":  "ERR_FILE_TOO_LARGE",
		})
	}

	if !transcription.ValidateAudioFormat(file.Filename) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Unsupported audio format",
			"code":  "ERR_INVALID_FORMAT",
		})
	}

	var speakerEvents []types.SpeakerEvent
	if raw := c.FormValue("events"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &speakerEvents); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"error": "Invalid speaker events JSON",
				"code":  "ERR_INVALID_EVENTS",
			})
		}
	}

	jobID := uuid.New().String()
	extension := filepath.Ext(file.Filename)
	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("%s%s", jobID, extension))

	if err := c.SaveFile(file, tempPath); err != nil {
		log.Printf("Failed to save uploaded file: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to save file",
			"code":  "ERR_SAVE_FAILED",
		})
	}

	job := queue.NewJob(jobID, meetingName, types.SourceUpload, tempPath)
	job.Events = speakerEvents

	h.workerPool.EnqueueJob(job)

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Recording uploaded, processing started",
	})
}
