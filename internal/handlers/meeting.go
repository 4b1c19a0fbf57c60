package handlers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/diaslmb/tldv/internal/bot"
	"github.com/diaslmb/tldv/internal/queue"
	"github.com/diaslmb/tldv/internal/types"
)

// MeetingHandler dispatches the Meet bot at a meeting URL
type MeetingHandler struct {
	workerPool  *queue.WorkerPool
	bot         *bot.MeetBot
	maxDuration time.Duration
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(workerPool *queue.WorkerPool, meetBot *bot.MeetBot, maxDurationHours float64) *MeetingHandler {
	if maxDurationHours <= 0 {
		maxDurationHours = 3
	}
	return &MeetingHandler{
		workerPool:  workerPool,
		bot:         meetBot,
		maxDuration: time.Duration(maxDurationHours * float64(time.Hour)),
	}
}

// MeetingRequest represents the request body
type MeetingRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Handle sends the bot into a meeting and queues processing of the recording
// once the bot leaves. Returns the job id immediately; joining and recording
// run in the background for up to the configured maximum duration.
func (h *MeetingHandler) Handle(c *fiber.Ctx) error {
	var req MeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	if req.URL == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "URL is required",
			"code":  "ERR_NO_URL",
		})
	}
	if !strings.Contains(req.URL, "meet.google.com") {
		return c.Status(400).JSON(fiber.Map{
			"error": "Only Google Meet URLs are supported",
			"code":  "ERR_INVALID_URL",
		})
	}

	if req.Name == "" {
		req.Name = "meeting"
	}

	jobID := uuid.New().String()

	go func() {
		audioPath, err := h.bot.Capture(context.Background(), jobID, req.URL, h.maxDuration)
		if err != nil {
			log.Printf("Meet capture failed for job %s: %v", jobID, err)
			return
		}

		job := queue.NewJob(jobID, req.Name, types.SourceMeet, audioPath)
		h.workerPool.EnqueueJob(job)
	}()

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "joining",
		"message": "Bot dispatched to the meeting; processing starts when it leaves",
	})
}
