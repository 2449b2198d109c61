package janitor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"tonearm/internal/logging"
	"tonearm/internal/manifest"
	"tonearm/internal/remotestore"
)

// Janitor classifies and removes orphaned tracks.
type Janitor struct {
	remote remotestore.Store
	logger *slog.Logger
}

// New creates a janitor over the given remote store.
func New(remote remotestore.Store, logger *slog.Logger) *Janitor {
	return &Janitor{
		remote: remote,
		logger: logging.NewComponentLogger(logger, "janitor"),
	}
}

// PruneOrphans removes every track backed by neither a local file nor a
// remote object from m's track set and playlists, returning the count
// removed. m is modified in place; persisting the result is the caller's
// decision. A track whose local stat fails for a reason other than absence
// is skipped rather than classified.
func (j *Janitor) PruneOrphans(ctx context.Context, m *manifest.Manifest) (int, error) {
	if j.remote == nil {
		return 0, errors.New("janitor: no remote store configured")
	}

	// One listing up front; never a per-track remote round-trip.
	listing, err := j.remote.ListObjects(ctx, manifest.ObjectPrefix)
	if err != nil {
		return 0, fmt.Errorf("janitor: list remote objects: %w", err)
	}
	remoteKeys := make(map[string]struct{}, len(listing))
	for _, obj := range listing {
		remoteKeys[obj.Key] = struct{}{}
	}

	orphans := make(map[string]struct{})
	for _, track := range m.Tracks {
		hasLocal, ok := localFileState(track.LocalPath)
		if !ok {
			j.logger.Warn("skipping track with unreadable local path",
				logging.String(logging.FieldTrackID, track.ID),
				logging.String(logging.FieldPath, track.LocalPath))
			continue
		}
		if hasLocal {
			continue
		}
		if _, onRemote := remoteKeys[track.ObjectKey()]; onRemote {
			continue
		}
		orphans[track.ID] = struct{}{}
		j.logger.Info("orphaned track",
			logging.String(logging.FieldTrackID, track.ID),
			logging.String("title", track.Title))
	}

	removed := m.RemoveTracks(orphans)
	if removed > 0 {
		j.logger.Info("pruned orphans", logging.Int("removed", removed))
	}
	return removed, nil
}

// localFileState reports (exists, classifiable). An empty path is a
// classifiable non-existence; stat errors other than absence are not
// classifiable.
func localFileState(path string) (bool, bool) {
	if path == "" {
		return false, true
	}
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().IsRegular(), true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, true
	}
	return false, false
}
