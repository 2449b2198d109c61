package library

import (
	"time"

	"tonearm/internal/fileutil"
	"tonearm/internal/manifest"
)

// Merge combines a remote manifest R and a locally cached manifest L into the
// authoritative manifest. Either side may be nil (absent).
//
// Rules, in order:
//   - both absent: fresh manifest at version 1.
//   - exactly one present: that side is adopted as-is, version unchanged.
//   - both present: R's tracks are the base and R is the metadata authority.
//     A track only in L survives iff its local file still exists on disk.
//     A track known to both sides adopts L's local path (and is_local=true)
//     iff that file still exists; every other field stays R's.
//     Playlists and settings come from R. Version becomes max(R, L) + 1.
func Merge(remote, local *manifest.Manifest, now time.Time) *manifest.Manifest {
	switch {
	case remote == nil && local == nil:
		merged := manifest.New()
		merged.LastUpdated = now
		return merged
	case remote == nil:
		return local.Clone()
	case local == nil:
		return remote.Clone()
	}

	merged := remote.Clone()
	remoteIDs := remote.TrackIDs()

	for i, track := range merged.Tracks {
		localTrack, known := local.TrackByID(track.ID)
		if !known || localTrack.LocalPath == "" {
			continue
		}
		if !fileutil.FileExists(localTrack.LocalPath) {
			continue
		}
		merged.Tracks[i].LocalPath = localTrack.LocalPath
		merged.Tracks[i].IsLocal = true
	}

	// Local-only tracks are pending uploads; keep them only while their
	// backing file exists.
	for _, track := range local.Tracks {
		if _, known := remoteIDs[track.ID]; known {
			continue
		}
		if track.LocalPath == "" || !fileutil.FileExists(track.LocalPath) {
			continue
		}
		track.IsLocal = true
		merged.UpsertTrack(track)
	}

	version := remote.Version
	if local.Version > version {
		version = local.Version
	}
	merged.Version = version + 1
	merged.LastUpdated = now
	return merged
}
