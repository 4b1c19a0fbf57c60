package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/diaslmb/tldv/internal/events"
	"github.com/diaslmb/tldv/internal/types"
)

// MeetBot joins a Google Meet call with headless Chrome, records the meeting
// audio, and logs active-speaker changes from the Meet UI into the shared
// event log. The event log is what later resolves diarization tags to names.
type MeetBot struct {
	displayName  string
	tempDir      string
	pollInterval time.Duration
	eventLog     *events.Log
}

// NewMeetBot creates a new Meet bot
func NewMeetBot(displayName, tempDir string, pollIntervalSeconds int, eventLog *events.Log) *MeetBot {
	if displayName == "" {
		displayName = "tldv notetaker"
	}
	if pollIntervalSeconds <= 0 {
		pollIntervalSeconds = 1
	}
	return &MeetBot{
		displayName:  displayName,
		tempDir:      tempDir,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		eventLog:     eventLog,
	}
}

// activeSpeakerJS reads the name of the participant Meet currently marks as
// speaking. Returns an empty string when nobody is highlighted.
const activeSpeakerJS = `(() => {
	const el = document.querySelector('[data-participant-id][class*="speaking"] [data-self-name], [data-participant-id][class*="speaking"] [data-participant-name]');
	return el ? el.textContent.trim() : "";
})()`

// Capture joins the meeting, records audio until maxDuration elapses or ctx
// is cancelled, and returns the path of the recorded WAV file. Speaker
// events observed while in the call are appended to the event log under
// jobID, with times relative to the start of the recording.
func (mb *MeetBot) Capture(ctx context.Context, jobID, meetURL string, maxDuration time.Duration) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("use-fake-ui-for-media-stream", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, maxDuration+5*time.Minute)
	defer cancelTimeout()

	if err := mb.join(browserCtx, meetURL); err != nil {
		return "", err
	}

	audioPath := filepath.Join(mb.tempDir, fmt.Sprintf("%s.wav", jobID))
	rec, err := startRecording(audioPath)
	if err != nil {
		return "", err
	}

	log.Printf("Bot in meeting, recording for up to %s", maxDuration)
	mb.monitorSpeakers(browserCtx, jobID, maxDuration)

	if err := stopRecording(rec); err != nil {
		return "", err
	}

	log.Printf("Recording finished: %s", audioPath)
	return audioPath, nil
}

// join navigates to the meeting and clicks through the pre-join screen
func (mb *MeetBot) join(ctx context.Context, meetURL string) error {
	log.Printf("Joining meeting: %s", meetURL)

	err := chromedp.Run(ctx,
		chromedp.Navigate(meetURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3*time.Second), // Wait for the pre-join screen
	)
	if err != nil {
		return fmt.Errorf("failed to open meeting page: %v", err)
	}

	// The name field only appears for anonymous guests.
	if err := chromedp.Run(ctx,
		chromedp.SendKeys(`input[placeholder="Your name"]`, mb.displayName, chromedp.ByQuery),
	); err != nil {
		log.Printf("No guest name field (probably signed in), continuing")
	} else {
		log.Printf("Guest name entered: %s", mb.displayName)
	}

	// "Join now" for open meetings, "Ask to join" when a host must admit us.
	var joined bool
	err = chromedp.Run(ctx,
		chromedp.Evaluate(`(() => {
			for (const btn of document.querySelectorAll("button")) {
				const label = btn.textContent.trim();
				if (label === "Join now" || label === "Ask to join") {
					btn.click();
					return true;
				}
			}
			return false;
		})()`, &joined),
	)
	if err != nil {
		return fmt.Errorf("failed to click join button: %v", err)
	}
	if !joined {
		return fmt.Errorf("no join button found on meeting page")
	}

	log.Printf("Joined or requested to join the meeting")
	return nil
}

// monitorSpeakers polls the Meet UI for the active speaker until the meeting
// duration elapses or ctx is cancelled. A new event is appended only when
// the active speaker changes, so the log stays small.
func (mb *MeetBot) monitorSpeakers(ctx context.Context, jobID string, maxDuration time.Duration) {
	started := time.Now()
	deadline := started.Add(maxDuration)
	ticker := time.NewTicker(mb.pollInterval)
	defer ticker.Stop()

	var lastSpeaker string
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.After(deadline) {
				return
			}

			var speaker string
			err := chromedp.Run(ctx,
				chromedp.Evaluate(activeSpeakerJS, &speaker, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
					return p.WithReturnByValue(true)
				}),
			)
			if err != nil {
				log.Printf("Speaker poll failed: %v", err)
				continue
			}

			if speaker != "" && speaker != lastSpeaker {
				ev := types.SpeakerEvent{
					Time:    now.Sub(started).Seconds(),
					Speaker: speaker,
				}
				mb.eventLog.Append(jobID, ev)
				log.Printf("Speaker change at %.1fs: %s", ev.Time, ev.Speaker)
				lastSpeaker = speaker
			}
		}
	}
}

// startRecording launches ffmpeg capturing the default audio sink
func startRecording(outputPath string) (*exec.Cmd, error) {
	cmd := exec.Command("ffmpeg",
		"-f", "pulse",
		"-i", "default",
		"-ac", "1",
		"-ar", "16000",
		"-y",
		outputPath,
	)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start audio capture: %v", err)
	}
	return cmd, nil
}

// stopRecording signals ffmpeg to finish and waits for it to flush the file
func stopRecording(cmd *exec.Cmd) error {
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}
	if err := cmd.Wait(); err != nil {
		// ffmpeg exits non-zero on SIGINT; the capture file is still valid.
		log.Printf("Audio capture exited: %v", err)
	}
	return nil
}
