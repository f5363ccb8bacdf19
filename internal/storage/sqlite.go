package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage persists the mirror manifest: one row per fetched URL
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance, opening/creating the DB and initializing schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	// Initialize schema
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		resource_id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		local_path TEXT,
		content_type TEXT,
		size INTEGER DEFAULT 0,
		status_code INTEGER DEFAULT 0,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_resources_url ON resources(url);
	CREATE INDEX IF NOT EXISTS idx_resources_content_type ON resources(content_type);
	`

	_, err := s.db.Exec(schema)
	return err
}

// UpsertResource inserts a manifest row or replaces its details if the URL exists
func (s *Storage) UpsertResource(res *Resource) error {
	_, err := s.db.Exec(`
		INSERT INTO resources (url, local_path, content_type, size, status_code, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			local_path = EXCLUDED.local_path,
			content_type = EXCLUDED.content_type,
			size = EXCLUDED.size,
			status_code = EXCLUDED.status_code,
			fetched_at = EXCLUDED.fetched_at
	`, res.URL, res.LocalPath, res.ContentType, res.Size, res.StatusCode, res.FetchedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert resource: %w", err)
	}
	return nil
}

// GetResource retrieves a manifest row by URL, returns nil if not found
func (s *Storage) GetResource(url string) (*Resource, error) {
	var res Resource
	err := s.db.QueryRow(`
		SELECT resource_id, url, local_path, content_type, size, status_code, fetched_at
		FROM resources
		WHERE url = ?
	`, url).Scan(&res.ResourceID, &res.URL, &res.LocalPath, &res.ContentType, &res.Size, &res.StatusCode, &res.FetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return &res, nil
}

// ListResources returns all manifest rows ordered by URL
func (s *Storage) ListResources() ([]*Resource, error) {
	rows, err := s.db.Query(`
		SELECT resource_id, url, local_path, content_type, size, status_code, fetched_at
		FROM resources
		ORDER BY url ASC
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ResourceID, &res.URL, &res.LocalPath, &res.ContentType, &res.Size, &res.StatusCode, &res.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	return resources, nil
}

// CountResources returns the number of manifest rows
func (s *Storage) CountResources() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM resources").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
