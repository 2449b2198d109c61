package searchindex

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"tonearm/internal/logging"
	"tonearm/internal/manifest"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    artist TEXT NOT NULL DEFAULT '',
    album TEXT NOT NULL DEFAULT '',
    duration INTEGER NOT NULL DEFAULT 0,
    checksum TEXT NOT NULL DEFAULT '',
    original_filename TEXT NOT NULL DEFAULT '',
    compressed INTEGER NOT NULL DEFAULT 0,
    file_size INTEGER NOT NULL DEFAULT 0,
    bitrate INTEGER NOT NULL DEFAULT 0,
    format TEXT NOT NULL DEFAULT '',
    cover_url TEXT NOT NULL DEFAULT '',
    year INTEGER NOT NULL DEFAULT 0,
    genre TEXT NOT NULL DEFAULT '',
    track_number INTEGER NOT NULL DEFAULT 0,
    is_local INTEGER NOT NULL DEFAULT 0,
    local_path TEXT NOT NULL DEFAULT '',
    fingerprint TEXT NOT NULL DEFAULT '',
    isrc TEXT NOT NULL DEFAULT '',
    search_text TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_tracks_search_text ON tracks (search_text);
`

const trackColumns = "id, title, artist, album, duration, checksum, original_filename, compressed, file_size, bitrate, format, cover_url, year, genre, track_number, is_local, local_path, fingerprint, isrc"

// Index is the SQLite-backed search mirror.
type Index struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the index database.
func Open(path string, logger *slog.Logger) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("searchindex: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("searchindex: open db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("searchindex: apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("searchindex: apply schema: %w", err)
	}
	return &Index{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "searchindex"),
	}, nil
}

// Close closes the underlying database connection.
func (x *Index) Close() error {
	if x == nil || x.db == nil {
		return nil
	}
	return x.db.Close()
}

// SyncFromManifest mirrors the manifest into the index as one transaction.
// Any failure rolls the whole sync back.
func (x *Index) SyncFromManifest(m *manifest.Manifest) (err error) {
	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("searchindex: begin sync: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Tombstone removal via a temp id table keeps the statement bounded no
	// matter how many tracks the manifest holds.
	if _, err = tx.Exec(`CREATE TEMP TABLE sync_ids (id TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("searchindex: create temp table: %w", err)
	}
	idStmt, err := tx.Prepare(`INSERT OR IGNORE INTO sync_ids (id) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("searchindex: prepare id insert: %w", err)
	}
	for _, track := range m.Tracks {
		if _, err = idStmt.Exec(track.ID); err != nil {
			idStmt.Close()
			return fmt.Errorf("searchindex: stage id %q: %w", track.ID, err)
		}
	}
	idStmt.Close()

	if _, err = tx.Exec(`DELETE FROM tracks WHERE id NOT IN (SELECT id FROM sync_ids)`); err != nil {
		return fmt.Errorf("searchindex: remove tombstones: %w", err)
	}

	upsert, err := tx.Prepare(`INSERT INTO tracks (` + trackColumns + `, search_text)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            title = excluded.title,
            artist = excluded.artist,
            album = excluded.album,
            duration = excluded.duration,
            checksum = excluded.checksum,
            original_filename = excluded.original_filename,
            compressed = excluded.compressed,
            file_size = excluded.file_size,
            bitrate = excluded.bitrate,
            format = excluded.format,
            cover_url = excluded.cover_url,
            year = excluded.year,
            genre = excluded.genre,
            track_number = excluded.track_number,
            is_local = CASE WHEN tracks.is_local = 1 THEN 1 ELSE excluded.is_local END,
            local_path = CASE WHEN excluded.local_path = '' THEN tracks.local_path ELSE excluded.local_path END,
            fingerprint = excluded.fingerprint,
            isrc = excluded.isrc,
            search_text = excluded.search_text`)
	if err != nil {
		return fmt.Errorf("searchindex: prepare upsert: %w", err)
	}
	defer upsert.Close()

	for _, track := range m.Tracks {
		if _, err = upsert.Exec(
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			track.Duration,
			track.Checksum,
			track.OriginalFilename,
			boolToInt(track.Compressed),
			track.FileSize,
			track.Bitrate,
			track.Format,
			track.CoverURL,
			track.Year,
			track.Genre,
			track.TrackNumber,
			boolToInt(track.IsLocal),
			track.LocalPath,
			track.Fingerprint,
			track.ISRC,
			searchText(track),
		); err != nil {
			return fmt.Errorf("searchindex: upsert %q: %w", track.ID, err)
		}
	}

	if _, err = tx.Exec(`DROP TABLE sync_ids`); err != nil {
		return fmt.Errorf("searchindex: drop temp table: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("searchindex: commit sync: %w", err)
	}

	x.logger.Debug("synced search index",
		logging.Int("track_count", len(m.Tracks)),
		logging.Int(logging.FieldVersion, m.Version))
	return nil
}

// Get returns one indexed track by id.
func (x *Index) Get(id string) (manifest.Track, bool, error) {
	row := x.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return manifest.Track{}, false, nil
	}
	if err != nil {
		return manifest.Track{}, false, fmt.Errorf("searchindex: get %q: %w", id, err)
	}
	return track, true, nil
}

// All returns every indexed track ordered for display.
func (x *Index) All() ([]manifest.Track, error) {
	rows, err := x.db.Query(`SELECT ` + trackColumns + ` FROM tracks ORDER BY artist, album, track_number, title`)
	if err != nil {
		return nil, fmt.Errorf("searchindex: list: %w", err)
	}
	return collectTracks(rows)
}

// Remove deletes one track from the index.
func (x *Index) Remove(id string) error {
	if _, err := x.db.Exec(`DELETE FROM tracks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("searchindex: remove %q: %w", id, err)
	}
	return nil
}

// Clear empties the index.
func (x *Index) Clear() error {
	if _, err := x.db.Exec(`DELETE FROM tracks`); err != nil {
		return fmt.Errorf("searchindex: clear: %w", err)
	}
	return nil
}

// Count returns the number of indexed tracks.
func (x *Index) Count() (int, error) {
	var count int
	if err := x.db.QueryRow(`SELECT COUNT(1) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("searchindex: count: %w", err)
	}
	return count, nil
}

func collectTracks(rows *sql.Rows) ([]manifest.Track, error) {
	defer rows.Close()
	var tracks []manifest.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("searchindex: scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func scanTrack(scanner interface{ Scan(dest ...any) error }) (manifest.Track, error) {
	var (
		track      manifest.Track
		compressed int
		isLocal    int
	)
	if err := scanner.Scan(
		&track.ID,
		&track.Title,
		&track.Artist,
		&track.Album,
		&track.Duration,
		&track.Checksum,
		&track.OriginalFilename,
		&compressed,
		&track.FileSize,
		&track.Bitrate,
		&track.Format,
		&track.CoverURL,
		&track.Year,
		&track.Genre,
		&track.TrackNumber,
		&isLocal,
		&track.LocalPath,
		&track.Fingerprint,
		&track.ISRC,
	); err != nil {
		return manifest.Track{}, err
	}
	track.Compressed = compressed != 0
	track.IsLocal = isLocal != 0
	return track, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
