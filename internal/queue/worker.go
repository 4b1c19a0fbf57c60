package queue

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/diaslmb/tldv/internal/events"
	"github.com/diaslmb/tldv/internal/storage"
	"github.com/diaslmb/tldv/internal/transcript"
	"github.com/diaslmb/tldv/internal/transcription"
	"github.com/diaslmb/tldv/internal/types"
)

// WorkerPool manages a pool of workers processing meeting jobs
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	whisper      *transcription.WhisperClient
	eventLog     *events.Log
	localStorage *storage.LocalStorage
	driveClient  *storage.DriveClient
	db           *storage.MetadataDB
	tempDir      string
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(
	workerCount int,
	whisper *transcription.WhisperClient,
	eventLog *events.Log,
	localStorage *storage.LocalStorage,
	driveClient *storage.DriveClient,
	db *storage.MetadataDB,
	tempDir string,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100), // Buffer of 100 jobs
		workerCount:  workerCount,
		whisper:      whisper,
		eventLog:     eventLog,
		localStorage: localStorage,
		driveClient:  driveClient,
		db:           db,
		tempDir:      tempDir,
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob adds a job to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	job.Status = types.StatusQueued
	job.CreatedAt = time.Now()
	wp.jobQueue <- job
	log.Printf("Job %s enqueued (source: %s, meeting: %s)", job.ID, job.SourceType, job.MeetingName)
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		// Panic recovery
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					job.Status = types.StatusFailed
					job.Error = fmt.Errorf("worker panic: %v", r)
					wp.cleanupTempFile(job.AudioPath)
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob runs the complete pipeline for one meeting: transcribe the
// recording, extract diarized segments, attribute speakers from the event
// log, then hand the records to the persistence collaborators.
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s", workerID, job.ID)
	job.Status = types.StatusProcessing

	// Step 1: Normalize audio for the Whisper endpoint
	normalizedPath, err := transcription.NormalizeAudio(wp.tempDir, job.AudioPath)
	if err != nil {
		wp.failJob(workerID, job, fmt.Errorf("audio normalization failed: %v", err))
		return
	}
	defer wp.cleanupTempFile(normalizedPath)

	// Step 2: Transcribe
	rawText, err := wp.whisper.Transcribe(context.Background(), normalizedPath)
	if err != nil {
		wp.failJob(workerID, job, fmt.Errorf("transcription failed: %v", err))
		return
	}

	// Step 3: Extract segments and attribute speakers. The upload path
	// carries events on the job itself; the bot path fills the event log.
	segments := transcript.ParseSegments(rawText)

	evs := job.Events
	if len(evs) == 0 {
		evs = wp.eventLog.Snapshot(job.ID)
	}
	records := transcript.Attribute(segments, evs)

	result := &types.MeetingResult{
		JobID:        job.ID,
		MeetingName:  job.MeetingName,
		RawText:      rawText,
		Records:      records,
		SpeakerCount: countSpeakers(records),
		ProcessedAt:  time.Now(),
	}
	if len(records) > 0 {
		result.Duration = records[len(records)-1].End
	}

	// Step 4: Save locally
	localPath, err := wp.localStorage.SaveTranscript(job.MeetingName, result)
	if err != nil {
		wp.failJob(workerID, job, fmt.Errorf("local save failed: %v", err))
		return
	}
	result.LocalPath = localPath

	// Step 5: Upload to Google Drive (with retry)
	if wp.driveClient != nil {
		var driveURL string
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, err = wp.driveClient.Upload(job.MeetingName, result)
			if err == nil {
				result.GDriveURL = driveURL
				break
			}
			log.Printf("Worker %d: Google Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second) // Exponential backoff
			}
		}
		if err != nil {
			log.Printf("Worker %d: WARNING - Google Drive upload failed after 3 attempts, continuing with local save only", workerID)
		}
	}

	// Step 6: Save metadata to database
	if wp.db != nil {
		err = wp.db.SaveMeeting(job.ID, job.MeetingName, job.SourceType,
			result.GDriveURL, localPath, result.Duration, len(records), result.SpeakerCount)
		if err != nil {
			log.Printf("Worker %d: Database save failed: %v", workerID, err)
		}
	}

	// Step 7: Cleanup
	wp.eventLog.Drop(job.ID)
	wp.cleanupTempFile(job.AudioPath)

	job.Result = result
	job.Status = types.StatusCompleted
	log.Printf("Worker %d: Job %s completed (%d records, %d speakers, local: %s)",
		workerID, job.ID, len(records), result.SpeakerCount, localPath)
}

// failJob marks a job failed and cleans its recording
func (wp *WorkerPool) failJob(workerID int, job *Job, err error) {
	log.Printf("Worker %d: Job %s failed: %v", workerID, job.ID, err)
	job.Status = types.StatusFailed
	job.Error = err
	wp.cleanupTempFile(job.AudioPath)
}

// countSpeakers returns the number of distinct resolved speaker names
func countSpeakers(records []types.TranscriptRecord) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.Speaker] = struct{}{}
	}
	return len(seen)
}

// cleanupTempFile removes a temporary file
func (wp *WorkerPool) cleanupTempFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to cleanup temp file %s: %v", filePath, err)
	}
}
