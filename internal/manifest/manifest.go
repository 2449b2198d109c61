package manifest

import (
	"encoding/json"
	"fmt"
	"time"
)

// Key is the fixed remote object key for the manifest document.
const Key = "manifest.json"

// ObjectPrefix is the remote key prefix under which media objects live.
const ObjectPrefix = "tracks/"

// Manifest is the single document enumerating all tracks, playlists, and
// settings for a library. Tracks are unique by id; playlist values are
// ordered lists of track ids.
type Manifest struct {
	Version     int                 `json:"version"`
	Tracks      []Track             `json:"tracks"`
	Playlists   map[string][]string `json:"playlists"`
	Settings    map[string]string   `json:"settings"`
	LastUpdated time.Time           `json:"last_updated"`
}

// New returns a fresh empty manifest at version 1.
func New() *Manifest {
	return &Manifest{
		Version:   1,
		Tracks:    []Track{},
		Playlists: map[string][]string{},
		Settings:  map[string]string{},
	}
}

// TrackByID returns the track with the given id, if present.
func (m *Manifest) TrackByID(id string) (Track, bool) {
	for _, track := range m.Tracks {
		if track.ID == id {
			return track, true
		}
	}
	return Track{}, false
}

// TrackIDs returns the set of track ids present in the manifest.
func (m *Manifest) TrackIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(m.Tracks))
	for _, track := range m.Tracks {
		ids[track.ID] = struct{}{}
	}
	return ids
}

// UpsertTrack replaces the track with a matching id or appends a new one.
func (m *Manifest) UpsertTrack(track Track) {
	for i, existing := range m.Tracks {
		if existing.ID == track.ID {
			m.Tracks[i] = track
			return
		}
	}
	m.Tracks = append(m.Tracks, track)
}

// RemoveTracks deletes the given ids from the track set and scrubs them from
// every playlist. It returns the number of tracks actually removed.
func (m *Manifest) RemoveTracks(ids map[string]struct{}) int {
	if len(ids) == 0 {
		return 0
	}
	kept := m.Tracks[:0]
	removed := 0
	for _, track := range m.Tracks {
		if _, gone := ids[track.ID]; gone {
			removed++
			continue
		}
		kept = append(kept, track)
	}
	m.Tracks = kept

	for name, entries := range m.Playlists {
		filtered := entries[:0]
		for _, id := range entries {
			if _, gone := ids[id]; gone {
				continue
			}
			filtered = append(filtered, id)
		}
		m.Playlists[name] = filtered
	}
	return removed
}

// Clone returns a deep copy so callers can hand manifests across goroutines
// without sharing backing storage.
func (m *Manifest) Clone() *Manifest {
	clone := &Manifest{
		Version:     m.Version,
		Tracks:      make([]Track, len(m.Tracks)),
		Playlists:   make(map[string][]string, len(m.Playlists)),
		Settings:    make(map[string]string, len(m.Settings)),
		LastUpdated: m.LastUpdated,
	}
	copy(clone.Tracks, m.Tracks)
	for name, entries := range m.Playlists {
		clone.Playlists[name] = append([]string(nil), entries...)
	}
	for key, value := range m.Settings {
		clone.Settings[key] = value
	}
	return clone
}

// Encode renders the manifest as the canonical JSON document.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// Decode parses a manifest document. Nil maps are normalized to empty ones so
// callers never need nil checks.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Tracks == nil {
		m.Tracks = []Track{}
	}
	if m.Playlists == nil {
		m.Playlists = map[string][]string{}
	}
	if m.Settings == nil {
		m.Settings = map[string]string{}
	}
	return &m, nil
}
