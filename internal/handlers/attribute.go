package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/diaslmb/tldv/internal/transcript"
	"github.com/diaslmb/tldv/internal/types"
)

// AttributeHandler exposes the extraction and attribution pipeline directly:
// callers that already hold a diarized transcription and a speaker log get
// the attributed records back synchronously, with nothing persisted.
type AttributeHandler struct{}

// NewAttributeHandler creates a new attribute handler
func NewAttributeHandler() *AttributeHandler {
	return &AttributeHandler{}
}

// AttributeRequest represents the request body
type AttributeRequest struct {
	Transcription string               `json:"transcription"`
	Events        []types.SpeakerEvent `json:"events"`
}

// Handle runs the pipeline over the request body
func (h *AttributeHandler) Handle(c *fiber.Ctx) error {
	var req AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	if req.Transcription == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Transcription text is required",
			"code":  "ERR_NO_TRANSCRIPTION",
		})
	}

	segments := transcript.ParseSegments(req.Transcription)
	records := transcript.Attribute(segments, req.Events)
	if records == nil {
		records = []types.TranscriptRecord{}
	}

	return c.JSON(fiber.Map{
		"records":       records,
		"segment_count": len(records),
	})
}
