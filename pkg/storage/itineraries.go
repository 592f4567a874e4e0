package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Itinerary is one cached planner response, keyed by the normalized prompt.
type Itinerary struct {
	ID          int64
	UserID      string
	Destination string
	Duration    int
	Prompt      string
	Data        string // planner response JSON stored as text
	CreatedAt   int64  // Unix timestamp
}

// Store provides SQLite-backed persistence for generated itineraries.
type Store struct {
	db *sql.DB
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS itineraries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT,
	destination TEXT,
	duration INTEGER,
	prompt TEXT,
	data TEXT,
	created_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_itineraries_prompt ON itineraries(prompt);
`

// New opens the SQLite database at dbPath, creating the parent directory and
// tables as needed.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("storage: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	// WAL keeps concurrent request-path reads cheap.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// FindByPrompt returns the oldest cached itinerary for the prompt, or nil
// when there is no cache hit.
func (s *Store) FindByPrompt(prompt string) (*Itinerary, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, destination, duration, prompt, data, created_at
		 FROM itineraries WHERE prompt = ? ORDER BY id LIMIT 1`, prompt)

	var it Itinerary
	err := row.Scan(&it.ID, &it.UserID, &it.Destination, &it.Duration, &it.Prompt, &it.Data, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: find itinerary: %w", err)
	}
	return &it, nil
}

// Save stores a freshly generated itinerary and fills in its ID.
func (s *Store) Save(it *Itinerary) error {
	if it.CreatedAt == 0 {
		it.CreatedAt = time.Now().Unix()
	}
	res, err := s.db.Exec(
		`INSERT INTO itineraries (user_id, destination, duration, prompt, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		it.UserID, it.Destination, it.Duration, it.Prompt, it.Data, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("storage: save itinerary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage: itinerary id: %w", err)
	}
	it.ID = id
	return nil
}
