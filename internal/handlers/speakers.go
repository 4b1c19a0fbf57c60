package handlers

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/websocket/v2"

	"github.com/diaslmb/tldv/internal/events"
	"github.com/diaslmb/tldv/internal/types"
)

// SpeakersHandler ingests live speaker-activity events over WebSocket.
// External capture tools (a browser extension, another bot) connect with a
// job id and push {time, speaker} messages while the meeting runs; the
// worker reads the accumulated log when it processes the recording.
type SpeakersHandler struct {
	eventLog *events.Log
}

// NewSpeakersHandler creates a new speakers handler
func NewSpeakersHandler(eventLog *events.Log) *SpeakersHandler {
	return &SpeakersHandler{
		eventLog: eventLog,
	}
}

// Handle processes one WebSocket connection
func (h *SpeakersHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	jobID := c.Params("id")
	if jobID == "" {
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing job id"}`))
		return
	}

	log.Printf("Speaker event stream connected for job %s", jobID)

	var accepted int
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if string(message) == "END" {
			break
		}

		var ev types.SpeakerEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			c.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid event JSON"}`))
			continue
		}
		if ev.Speaker == "" || ev.Time < 0 {
			c.WriteMessage(websocket.TextMessage, []byte(`{"error":"event needs a speaker and a non-negative time"}`))
			continue
		}

		h.eventLog.Append(jobID, ev)
		accepted++
	}

	log.Printf("Speaker event stream for job %s closed (%d events)", jobID, accepted)
	c.WriteMessage(websocket.TextMessage,
		[]byte(fmt.Sprintf(`{"job_id":%q,"events_recorded":%d}`, jobID, accepted)))
}
