package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Track describes one media item in the library. Field names are part of the
// manifest wire format.
type Track struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Artist           string `json:"artist"`
	Album            string `json:"album"`
	Duration         int    `json:"duration"`
	Checksum         string `json:"checksum"`
	OriginalFilename string `json:"original_filename"`
	Compressed       bool   `json:"compressed"`
	FileSize         int64  `json:"file_size"`
	Bitrate          int    `json:"bitrate"`
	Format           string `json:"format"`
	CoverURL         string `json:"cover_url,omitempty"`
	Year             int    `json:"year,omitempty"`
	Genre            string `json:"genre,omitempty"`
	TrackNumber      int    `json:"track_number,omitempty"`
	IsLocal          bool   `json:"is_local"`
	LocalPath        string `json:"local_path,omitempty"`
	Fingerprint      string `json:"fingerprint,omitempty"`
	ISRC             string `json:"isrc,omitempty"`
}

// ObjectKey returns the remote object key for the track's media bytes.
// The tracks/{id}.{format} convention is shared with other clients and must
// not change.
func (t Track) ObjectKey() string {
	format := strings.TrimSpace(strings.ToLower(t.Format))
	if format == "" {
		format = "mp3"
	}
	return fmt.Sprintf("tracks/%s.%s", t.ID, format)
}

// Validate reports whether the track satisfies the minimal manifest contract.
func (t Track) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("track id is required")
	}
	if t.Duration < 0 {
		return fmt.Errorf("track %s: negative duration", t.ID)
	}
	if t.FileSize < 0 {
		return fmt.Errorf("track %s: negative file size", t.ID)
	}
	return nil
}

// FromMetadata validates a loose metadata map (as produced by ingestion or
// older tooling) into a strict Track. Unknown keys are ignored; missing
// required keys are an error.
func FromMetadata(meta map[string]any) (Track, error) {
	track := Track{
		ID:               stringValue(meta, "id"),
		Title:            stringValue(meta, "title"),
		Artist:           stringValue(meta, "artist"),
		Album:            stringValue(meta, "album"),
		Duration:         intValue(meta, "duration"),
		Checksum:         stringValue(meta, "checksum"),
		OriginalFilename: stringValue(meta, "original_filename"),
		Compressed:       boolValue(meta, "compressed"),
		FileSize:         int64Value(meta, "file_size"),
		Bitrate:          intValue(meta, "bitrate"),
		Format:           stringValue(meta, "format"),
		CoverURL:         stringValue(meta, "cover_url"),
		Year:             intValue(meta, "year"),
		Genre:            stringValue(meta, "genre"),
		TrackNumber:      intValue(meta, "track_number"),
		IsLocal:          boolValue(meta, "is_local"),
		LocalPath:        stringValue(meta, "local_path"),
		Fingerprint:      stringValue(meta, "fingerprint"),
		ISRC:             stringValue(meta, "isrc"),
	}
	if err := track.Validate(); err != nil {
		return Track{}, err
	}
	return track, nil
}

func stringValue(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func boolValue(meta map[string]any, key string) bool {
	v, ok := meta[key].(bool)
	return ok && v
}

func intValue(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func int64Value(meta map[string]any, key string) int64 {
	switch v := meta[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
