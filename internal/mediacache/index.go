package mediacache

import (
	"database/sql"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    track_id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    size INTEGER NOT NULL,
    last_accessed INTEGER NOT NULL,
    access_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_last_accessed
    ON cache_entries (last_accessed);
`

// Entry is one row of the persistent cache index.
type Entry struct {
	TrackID      string
	Path         string
	Size         int64
	LastAccessed time.Time
	AccessCount  int64
}

func openIndex(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply cache index schema: %w", err)
	}
	return db, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		accessedNano int64
	)
	if err := scanner.Scan(&entry.TrackID, &entry.Path, &entry.Size, &accessedNano, &entry.AccessCount); err != nil {
		return Entry{}, err
	}
	entry.LastAccessed = time.Unix(0, accessedNano).UTC()
	return entry, nil
}
