package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"gopkg.in/yaml.v3"

	"github.com/diaslmb/tldv/internal/bot"
	"github.com/diaslmb/tldv/internal/cleanup"
	"github.com/diaslmb/tldv/internal/events"
	"github.com/diaslmb/tldv/internal/handlers"
	"github.com/diaslmb/tldv/internal/queue"
	"github.com/diaslmb/tldv/internal/storage"
	"github.com/diaslmb/tldv/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Whisper struct {
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		TimeoutMinutes int    `yaml:"timeout_minutes"`
	} `yaml:"whisper"`

	Bot struct {
		DisplayName         string  `yaml:"display_name"`
		PollIntervalSeconds int     `yaml:"poll_interval_seconds"`
		MaxDurationHours    float64 `yaml:"max_duration_hours"`
	} `yaml:"bot"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

func main() {
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cleanup.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(config.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	log.Println("Initializing components...")

	// Whisper client
	whisper := transcription.NewWhisperClient(
		config.Whisper.Endpoint,
		config.Whisper.Model,
		config.Whisper.TimeoutMinutes,
	)

	// Speaker-activity event log shared by the bot and the WebSocket ingest
	eventLog := events.NewLog()

	// Meet bot
	meetBot := bot.NewMeetBot(
		config.Bot.DisplayName,
		config.Storage.TempDir,
		config.Bot.PollIntervalSeconds,
		eventLog,
	)

	// Local storage
	localStorage := storage.NewLocalStorage(config.Storage.OutputDir)

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *storage.DriveClient
	if _, err := os.Stat(config.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			config.GoogleDrive.CredentialsFile,
			config.GoogleDrive.TokenFile,
			config.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Transcripts will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	// Database
	db, err := storage.NewMetadataDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Worker pool
	workerPool := queue.NewWorkerPool(
		config.Workers.Count,
		whisper,
		eventLog,
		localStorage,
		driveClient,
		db,
		config.Storage.TempDir,
	)
	workerPool.Start()

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		config.Storage.TempDir,
		config.Cleanup.IntervalMinutes,
		config.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: config.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	meetingHandler := handlers.NewMeetingHandler(workerPool, meetBot, config.Bot.MaxDurationHours)
	uploadHandler := handlers.NewUploadHandler(workerPool, config.Storage.TempDir, config.Limits.MaxFileSizeMB)
	attributeHandler := handlers.NewAttributeHandler()
	speakersHandler := handlers.NewSpeakersHandler(eventLog)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/meetings", meetingHandler.Handle)
	app.Post("/upload", uploadHandler.Handle)
	app.Post("/attribute", attributeHandler.Handle)

	// WebSocket route for live speaker events
	app.Get("/ws/meetings/:id/speakers", websocket.New(speakersHandler.Handle))

	// List processed meetings
	app.Get("/meetings", func(c *fiber.Ctx) error {
		limit := 50 // Default limit
		meetings, err := db.ListMeetings(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(meetings)
	})

	// Get meeting metadata
	app.Get("/meetings/:id", func(c *fiber.Ctx) error {
		meeting, err := db.GetMeeting(c.Params("id"))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Meeting not found"})
		}
		return c.JSON(meeting)
	})

	// Get the attributed transcript document
	app.Get("/meetings/:id/transcript", func(c *fiber.Ctx) error {
		meeting, err := db.GetMeeting(c.Params("id"))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Meeting not found"})
		}

		localPath, ok := meeting["local_path"].(string)
		if !ok || localPath == "" {
			return c.Status(404).JSON(fiber.Map{"error": "Transcript file path not found"})
		}

		content, err := os.ReadFile(localPath)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to read transcript file"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(content)
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /meetings   - Send the bot into a Google Meet")
	log.Println("   POST /upload     - Upload a recording with an optional speaker log")
	log.Println("   POST /attribute  - Attribute a diarized transcription directly")
	log.Println("   GET  /ws/meetings/:id/speakers - Push live speaker events")
	log.Println("   GET  /meetings   - List processed meetings")
	log.Println("   GET  /meetings/:id/transcript - Get the attributed transcript")
	log.Println("   GET  /logs       - View server logs")
	log.Println("   GET  /health     - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Append new line
	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Return copy of slice
	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
