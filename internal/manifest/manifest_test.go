package manifest

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := New()
	m.Version = 12
	m.LastUpdated = time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	m.UpsertTrack(Track{
		ID:       "a",
		Title:    "Alpha",
		Artist:   "Ann",
		Duration: 200,
		FileSize: 4096,
		Format:   "flac",
		IsLocal:  true,
	})
	m.Playlists["mix"] = []string{"a"}
	m.Settings["theme"] = "dark"

	data, err := m.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Version != 12 || len(decoded.Tracks) != 1 {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
	if !decoded.LastUpdated.Equal(m.LastUpdated) {
		t.Fatalf("last_updated mismatch: %v", decoded.LastUpdated)
	}
	if decoded.Tracks[0] != m.Tracks[0] {
		t.Fatalf("track mismatch: %+v", decoded.Tracks[0])
	}
}

// The wire field names are shared with other clients and must not drift.
func TestWireFieldNames(t *testing.T) {
	m := New()
	m.UpsertTrack(Track{ID: "a", Duration: 1})
	data, err := m.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"version", "tracks", "playlists", "settings", "last_updated"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("manifest document missing %q", key)
		}
	}
	track := doc["tracks"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "title", "artist", "album", "duration", "checksum", "original_filename", "compressed", "file_size", "bitrate", "format", "is_local"} {
		if _, ok := track[key]; !ok {
			t.Errorf("track document missing %q", key)
		}
	}
}

func TestDecodeNormalizesNilMaps(t *testing.T) {
	m, err := Decode([]byte(`{"version": 1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Tracks == nil || m.Playlists == nil || m.Settings == nil {
		t.Fatalf("decode must normalize nil collections: %+v", m)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRemoveTracksScrubsPlaylists(t *testing.T) {
	m := New()
	m.UpsertTrack(Track{ID: "a"})
	m.UpsertTrack(Track{ID: "b"})
	m.UpsertTrack(Track{ID: "c"})
	m.Playlists["mix"] = []string{"a", "b", "c"}
	m.Playlists["other"] = []string{"b"}

	removed := m.RemoveTracks(map[string]struct{}{"a": {}, "c": {}, "missing": {}})
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(m.Tracks) != 1 || m.Tracks[0].ID != "b" {
		t.Fatalf("unexpected tracks: %+v", m.Tracks)
	}
	if got := m.Playlists["mix"]; len(got) != 1 || got[0] != "b" {
		t.Fatalf("playlist not scrubbed: %v", got)
	}
	if got := m.Playlists["other"]; len(got) != 1 {
		t.Fatalf("untouched playlist damaged: %v", got)
	}
}

func TestUpsertTrackReplacesById(t *testing.T) {
	m := New()
	m.UpsertTrack(Track{ID: "a", Title: "One"})
	m.UpsertTrack(Track{ID: "a", Title: "Two"})
	if len(m.Tracks) != 1 || m.Tracks[0].Title != "Two" {
		t.Fatalf("upsert must replace in place: %+v", m.Tracks)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := New()
	m.UpsertTrack(Track{ID: "a", Title: "Alpha"})
	m.Playlists["mix"] = []string{"a"}
	m.Settings["theme"] = "dark"

	clone := m.Clone()
	clone.Tracks[0].Title = "Changed"
	clone.Playlists["mix"][0] = "changed"
	clone.Settings["theme"] = "light"

	if m.Tracks[0].Title != "Alpha" {
		t.Fatalf("clone shares track storage")
	}
	if m.Playlists["mix"][0] != "a" {
		t.Fatalf("clone shares playlist storage")
	}
	if m.Settings["theme"] != "dark" {
		t.Fatalf("clone shares settings storage")
	}
}

func TestObjectKey(t *testing.T) {
	if got := (Track{ID: "abc", Format: "FLAC"}).ObjectKey(); got != "tracks/abc.flac" {
		t.Fatalf("object key = %q", got)
	}
	if got := (Track{ID: "abc"}).ObjectKey(); got != "tracks/abc.mp3" {
		t.Fatalf("format fallback = %q", got)
	}
}

func TestFromMetadata(t *testing.T) {
	track, err := FromMetadata(map[string]any{
		"id":        "a",
		"title":     " Alpha ",
		"duration":  float64(180),
		"file_size": float64(2048),
		"is_local":  true,
		"unknown":   "ignored",
	})
	if err != nil {
		t.Fatalf("from metadata: %v", err)
	}
	if track.Title != "Alpha" || track.Duration != 180 || track.FileSize != 2048 || !track.IsLocal {
		t.Fatalf("unexpected track: %+v", track)
	}

	if _, err := FromMetadata(map[string]any{"title": "no id"}); err == nil {
		t.Fatalf("missing id must fail validation")
	}
	if _, err := FromMetadata(map[string]any{"id": "a", "duration": float64(-1)}); err == nil {
		t.Fatalf("negative duration must fail validation")
	}
}
