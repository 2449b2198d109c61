package mediacache

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"tonearm/internal/fileutil"
	"tonearm/internal/logging"
)

const indexFilename = "index.db"

// Cache is a bounded LRU disk cache of media bytes keyed by track id.
type Cache struct {
	dir    string
	budget int64
	logger *slog.Logger

	mu sync.Mutex
	db *sql.DB

	now     func() time.Time
	onEvict func(trackID string, size int64)
}

// Stats describes current cache usage.
type Stats struct {
	Entries    int   `json:"entries"`
	TotalBytes int64 `json:"total_bytes"`
	MaxBytes   int64 `json:"max_bytes"`
}

// Open initializes the cache directory and its persistent index.
func Open(dir string, budget int64, logger *slog.Logger) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("mediacache: directory is required")
	}
	if budget <= 0 {
		return nil, errors.New("mediacache: budget must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mediacache: create directory: %w", err)
	}
	db, err := openIndex(filepath.Join(dir, indexFilename))
	if err != nil {
		return nil, err
	}
	return &Cache{
		dir:    dir,
		budget: budget,
		logger: logging.NewComponentLogger(logger, "mediacache"),
		db:     db,
		now:    time.Now,
	}, nil
}

// Close releases the index database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// SetEvictionHook registers a callback invoked after each eviction. The hook
// runs with the cache lock held and must not call back into the cache.
func (c *Cache) SetEvictionHook(fn func(trackID string, size int64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the cached file path for id. A row whose file has vanished
// out-of-band is treated as a miss and removed from the index. On a hit the
// access time and count are updated.
func (c *Cache) Get(id string) (string, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.db.QueryRow(`SELECT track_id, path, size, last_accessed, access_count FROM cache_entries WHERE track_id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("mediacache: lookup %q: %w", id, err)
	}

	if !fileutil.FileExists(entry.Path) {
		if _, err := c.db.Exec(`DELETE FROM cache_entries WHERE track_id = ?`, id); err != nil {
			return "", false, fmt.Errorf("mediacache: drop stale row %q: %w", id, err)
		}
		c.logger.Debug("dropped stale cache row",
			logging.String(logging.FieldTrackID, id),
			logging.String(logging.FieldPath, entry.Path))
		return "", false, nil
	}

	_, err = c.db.Exec(`UPDATE cache_entries SET last_accessed = ?, access_count = access_count + 1 WHERE track_id = ?`,
		c.now().UTC().UnixNano(), id)
	if err != nil {
		return "", false, fmt.Errorf("mediacache: touch %q: %w", id, err)
	}
	return entry.Path, true, nil
}

// Put places the bytes at sourcePath into the cache under a name derived from
// id and the source extension. When move is true the source is renamed into
// place, otherwise copied. Space is reclaimed from least recently used
// entries first; a single entry larger than the budget empties the cache and
// is still written.
func (c *Cache) Put(id, sourcePath string, move bool) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("mediacache: track id is required")
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", fmt.Errorf("mediacache: inspect source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("mediacache: source %q is not a regular file", sourcePath)
	}
	size := info.Size()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureSpace(size); err != nil {
		return "", err
	}

	dest := filepath.Join(c.dir, entryFilename(id, sourcePath))

	// A re-put under a new extension lands at a different path; drop the old
	// file so it cannot linger on disk untracked by the index.
	var prevPath string
	err = c.db.QueryRow(`SELECT path FROM cache_entries WHERE track_id = ?`, id).Scan(&prevPath)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return "", fmt.Errorf("mediacache: lookup %q: %w", id, err)
	case prevPath != dest:
		if err := os.Remove(prevPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("could not remove superseded cache file",
				logging.String(logging.FieldTrackID, id),
				logging.String(logging.FieldPath, prevPath),
				logging.Error(err))
		}
	}

	if move {
		err = fileutil.MoveFile(sourcePath, dest)
	} else {
		err = fileutil.CopyFile(sourcePath, dest)
	}
	if err != nil {
		return "", fmt.Errorf("mediacache: place %q: %w", id, err)
	}

	// Index row only after the bytes are in place.
	_, err = c.db.Exec(`INSERT INTO cache_entries (track_id, path, size, last_accessed, access_count)
        VALUES (?, ?, ?, ?, 0)
        ON CONFLICT (track_id) DO UPDATE SET path = excluded.path, size = excluded.size, last_accessed = excluded.last_accessed`,
		id, dest, size, c.now().UTC().UnixNano())
	if err != nil {
		return "", fmt.Errorf("mediacache: index %q: %w", id, err)
	}

	c.logger.Debug("cached media",
		logging.String(logging.FieldTrackID, id),
		logging.Int64("size_bytes", size))
	return dest, nil
}

// Remove deletes one entry's file and index row.
func (c *Cache) Remove(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.db.QueryRow(`SELECT track_id, path, size, last_accessed, access_count FROM cache_entries WHERE track_id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mediacache: lookup %q: %w", id, err)
	}
	return c.evict(entry)
}

// PruneToSize evicts least recently used entries until usage is at or below
// target bytes.
func (c *Cache) PruneToSize(target int64) error {
	if target < 0 {
		target = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reclaim(target)
}

// Clear removes every cached file and index row.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reclaim(-1)
}

// Usage returns the total bytes referenced by live index rows.
func (c *Cache) Usage() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usageLocked()
}

// Stats returns entry count, usage, and budget.
func (c *Cache) Stats() (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s Stats
	row := c.db.QueryRow(`SELECT COUNT(1), COALESCE(SUM(size), 0) FROM cache_entries`)
	if err := row.Scan(&s.Entries, &s.TotalBytes); err != nil {
		return Stats{}, fmt.Errorf("mediacache: stats: %w", err)
	}
	s.MaxBytes = c.budget
	return s, nil
}

// ensureSpace evicts oldest entries until incoming + usage fits the budget or
// the cache is empty. Callers hold the mutex.
func (c *Cache) ensureSpace(incoming int64) error {
	target := c.budget - incoming
	// Oversized single entry: evict everything, cache it anyway.
	if target < 0 {
		target = 0
	}
	return c.reclaim(target)
}

// reclaim evicts least recently used entries until usage <= target. A target
// below zero empties the cache. A single entry that fails to delete is
// skipped so one bad file cannot wedge the sweep. Callers hold the mutex.
func (c *Cache) reclaim(target int64) error {
	usage, err := c.usageLocked()
	if err != nil {
		return err
	}
	if target >= 0 && usage <= target {
		return nil
	}

	rows, err := c.db.Query(`SELECT track_id, path, size, last_accessed, access_count FROM cache_entries ORDER BY last_accessed`)
	if err != nil {
		return fmt.Errorf("mediacache: list for eviction: %w", err)
	}
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("mediacache: scan for eviction: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("mediacache: iterate for eviction: %w", err)
	}
	rows.Close()

	for _, entry := range entries {
		if target >= 0 && usage <= target {
			break
		}
		if err := c.evict(entry); err != nil {
			c.logger.Warn("skipping cache entry during eviction",
				logging.String(logging.FieldTrackID, entry.TrackID),
				logging.Error(err))
			continue
		}
		usage -= entry.Size
	}
	return nil
}

// evict deletes an entry's file, then its index row. Callers hold the mutex.
func (c *Cache) evict(entry Entry) error {
	if err := os.Remove(entry.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("mediacache: remove file %q: %w", entry.Path, err)
	}
	if _, err := c.db.Exec(`DELETE FROM cache_entries WHERE track_id = ?`, entry.TrackID); err != nil {
		return fmt.Errorf("mediacache: remove row %q: %w", entry.TrackID, err)
	}
	c.logger.Debug("evicted cache entry",
		logging.String(logging.FieldTrackID, entry.TrackID),
		logging.Int64("size_bytes", entry.Size))
	if c.onEvict != nil {
		c.onEvict(entry.TrackID, entry.Size)
	}
	return nil
}

func (c *Cache) usageLocked() (int64, error) {
	var usage int64
	row := c.db.QueryRow(`SELECT COALESCE(SUM(size), 0) FROM cache_entries`)
	if err := row.Scan(&usage); err != nil {
		return 0, fmt.Errorf("mediacache: usage: %w", err)
	}
	return usage, nil
}

func entryFilename(id, sourcePath string) string {
	ext := strings.ToLower(filepath.Ext(sourcePath))
	return sanitize(id) + ext
}

func sanitize(value string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		" ", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	value = strings.Trim(replacer.Replace(strings.TrimSpace(value)), "-_.")
	if value == "" {
		return "entry"
	}
	return value
}
