package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MetadataDB handles SQLite database operations
type MetadataDB struct {
	db *sql.DB
}

// NewMetadataDB creates a new metadata database
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS meetings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		meeting_name TEXT NOT NULL,
		source_type TEXT NOT NULL,
		gdrive_url TEXT,
		local_path TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		duration REAL,
		segment_count INTEGER,
		speaker_count INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_meetings_created_at ON meetings(created_at);
	CREATE INDEX IF NOT EXISTS idx_meetings_name ON meetings(meeting_name);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveMeeting saves meeting metadata to the database
func (mdb *MetadataDB) SaveMeeting(
	jobID, meetingName, sourceType, gdriveURL, localPath string,
	duration float64, segmentCount, speakerCount int,
) error {
	query := `
	INSERT INTO meetings (job_id, meeting_name, source_type, gdrive_url, local_path, created_at, duration, segment_count, speaker_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mdb.db.Exec(query, jobID, meetingName, sourceType, gdriveURL, localPath,
		time.Now(), duration, segmentCount, speakerCount)
	if err != nil {
		return fmt.Errorf("failed to save meeting metadata: %v", err)
	}

	return nil
}

// GetMeeting retrieves meeting metadata by job ID
func (mdb *MetadataDB) GetMeeting(jobID string) (map[string]interface{}, error) {
	query := `
	SELECT job_id, meeting_name, source_type, gdrive_url, local_path, created_at, duration, segment_count, speaker_count
	FROM meetings WHERE job_id = ?
	`

	row := mdb.db.QueryRow(query, jobID)

	var (
		jid, name, source, gdrive, local string
		createdAt                        time.Time
		duration                         float64
		segmentCount, speakerCount       int
	)

	err := row.Scan(&jid, &name, &source, &gdrive, &local, &createdAt, &duration, &segmentCount, &speakerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %v", err)
	}

	return map[string]interface{}{
		"job_id":        jid,
		"meeting_name":  name,
		"source_type":   source,
		"gdrive_url":    gdrive,
		"local_path":    local,
		"created_at":    createdAt,
		"duration":      duration,
		"segment_count": segmentCount,
		"speaker_count": speakerCount,
	}, nil
}

// ListMeetings returns the most recent meetings
func (mdb *MetadataDB) ListMeetings(limit int) ([]map[string]interface{}, error) {
	query := `
	SELECT job_id, meeting_name, source_type, gdrive_url, local_path, created_at, duration, segment_count, speaker_count
	FROM meetings ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %v", err)
	}
	defer rows.Close()

	var meetings []map[string]interface{}

	for rows.Next() {
		var (
			jid, name, source, gdrive, local string
			createdAt                        time.Time
			duration                         float64
			segmentCount, speakerCount       int
		)

		if err := rows.Scan(&jid, &name, &source, &gdrive, &local, &createdAt, &duration, &segmentCount, &speakerCount); err != nil {
			continue
		}

		meetings = append(meetings, map[string]interface{}{
			"job_id":        jid,
			"meeting_name":  name,
			"source_type":   source,
			"gdrive_url":    gdrive,
			"local_path":    local,
			"created_at":    createdAt,
			"duration":      duration,
			"segment_count": segmentCount,
			"speaker_count": speakerCount,
		})
	}

	return meetings, nil
}

// Close closes the database connection
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}
