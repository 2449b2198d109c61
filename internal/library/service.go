package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tonearm/internal/config"
	"tonearm/internal/events"
	"tonearm/internal/janitor"
	"tonearm/internal/logging"
	"tonearm/internal/manifest"
	"tonearm/internal/mediacache"
	"tonearm/internal/remotestore"
	"tonearm/internal/resolver"
	"tonearm/internal/scanner"
	"tonearm/internal/searchindex"
)

// Options collects the collaborators a Service needs. Remote and MediaCache
// may be nil (offline mode, caching disabled).
type Options struct {
	Config        *config.Config
	Remote        remotestore.Store
	ManifestCache *manifest.Cache
	SearchIndex   *searchindex.Index
	MediaCache    *mediacache.Cache
	Bus           *events.Bus
	Logger        *slog.Logger
}

// Service is the exported surface of the reconciliation core. Sync and the
// other manifest mutations are serialized per instance; the media cache has
// its own internal lock and may be used concurrently.
type Service struct {
	remote   remotestore.Store
	local    *manifest.Cache
	index    *searchindex.Index
	media    *mediacache.Cache
	bus      *events.Bus
	resolver *resolver.Resolver
	janitor  *janitor.Janitor
	scanner  *scanner.Scanner
	logger   *slog.Logger

	mu      sync.Mutex
	current *manifest.Manifest
}

// New wires a Service from its collaborators.
func New(opts Options) (*Service, error) {
	if opts.Config == nil {
		return nil, errors.New("library: config is required")
	}
	if opts.ManifestCache == nil {
		return nil, errors.New("library: manifest cache is required")
	}
	if opts.SearchIndex == nil {
		return nil, errors.New("library: search index is required")
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus(opts.Logger)
	}
	if opts.MediaCache != nil {
		opts.MediaCache.SetEvictionHook(func(trackID string, _ int64) {
			bus.Publish(events.Event{Type: events.CacheEvicted, TrackID: trackID})
		})
	}
	return &Service{
		remote:   opts.Remote,
		local:    opts.ManifestCache,
		index:    opts.SearchIndex,
		media:    opts.MediaCache,
		bus:      bus,
		resolver: resolver.New(opts.MediaCache, opts.Remote, opts.Logger),
		janitor:  janitor.New(opts.Remote, opts.Logger),
		scanner:  scanner.New(opts.Config.Scanner, opts.Logger),
		logger:   logging.NewComponentLogger(opts.Logger, "library"),
	}, nil
}

// Bus exposes the event bus for presentation layers.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// Sync reconciles the remote and locally cached manifests and persists the
// result. On remote failure the last good local manifest stays current and
// the failure is reported; the merged result is not considered committed.
func (s *Service) Sync(ctx context.Context) (*manifest.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remote, err := s.fetchRemoteManifest(ctx)
	if err != nil {
		// Degrade to the last good local state.
		if local, ok, loadErr := s.local.Load(); loadErr == nil && ok {
			s.current = local
		}
		s.bus.Publish(events.Event{Type: events.SyncFailed, Err: err})
		return nil, err
	}

	local, _, err := s.local.Load()
	if err != nil {
		s.logger.Warn("local manifest cache unreadable", logging.Error(err))
		local = nil
	}

	merged := Merge(remote, local, time.Now().UTC())

	// Local cache first: losing it only costs a rebuild.
	if err := s.local.Save(merged); err != nil {
		s.logger.Warn("failed to persist local manifest cache", logging.Error(err))
	}

	// Remote write is the commit point.
	if s.remote != nil {
		data, err := merged.Encode()
		if err != nil {
			s.bus.Publish(events.Event{Type: events.SyncFailed, Err: err})
			return nil, err
		}
		if err := s.remote.UploadDocument(ctx, manifest.Key, data); err != nil {
			err = fmt.Errorf("push manifest: %w", err)
			s.bus.Publish(events.Event{Type: events.SyncFailed, Err: err})
			return nil, err
		}
	}

	// Index failures are never fatal: the index is rebuildable from the
	// manifest on the next sync.
	if err := s.index.SyncFromManifest(merged); err != nil {
		s.logger.Warn("search index sync failed", logging.Error(err))
	}

	s.current = merged
	s.logger.Info("reconciled library",
		logging.Int(logging.FieldVersion, merged.Version),
		logging.Int("track_count", len(merged.Tracks)))
	s.bus.Publish(events.Event{Type: events.SyncCompleted, Version: merged.Version})
	return merged.Clone(), nil
}

// fetchRemoteManifest downloads and parses the remote manifest. A missing or
// corrupt document is absent, not an error; only transport failures are.
func (s *Service) fetchRemoteManifest(ctx context.Context) (*manifest.Manifest, error) {
	if s.remote == nil {
		return nil, nil
	}
	data, found, err := s.remote.DownloadDocument(ctx, manifest.Key)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	if !found {
		return nil, nil
	}
	m, err := manifest.Decode(data)
	if err != nil {
		s.logger.Warn("remote manifest unreadable, treating as absent", logging.Error(err))
		return nil, nil
	}
	return m, nil
}

// Current returns the manifest from the last successful Sync, falling back to
// the local cache. The boolean is false when neither exists.
func (s *Service) Current() (*manifest.Manifest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.currentLocked()
	if err != nil || m == nil {
		return nil, false
	}
	return m.Clone(), true
}

func (s *Service) currentLocked() (*manifest.Manifest, error) {
	if s.current != nil {
		return s.current, nil
	}
	local, ok, err := s.local.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	s.current = local
	return local, nil
}

// ListAllTracks returns every track in the current manifest.
func (s *Service) ListAllTracks() []manifest.Track {
	m, ok := s.Current()
	if !ok {
		return nil
	}
	return m.Tracks
}

// Search queries the search index.
func (s *Service) Search(query string) ([]manifest.Track, error) {
	return s.index.Search(query)
}

// ResolvePlayableLocation returns the best available location for the track.
func (s *Service) ResolvePlayableLocation(track manifest.Track) (resolver.Location, bool) {
	return s.resolver.Resolve(track)
}

// ScanLocal discovers new files in the music directory and records them in
// the local manifest so the next Sync promotes them. Returns the number of
// tracks added.
func (s *Service) ScanLocal(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, ok, err := s.local.Load()
	if err != nil {
		return 0, err
	}
	if !ok {
		local = manifest.New()
	}

	added, err := s.scanner.Scan(ctx, local)
	if err != nil {
		return added, err
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.local.Save(local); err != nil {
		return added, err
	}
	return added, nil
}

// PruneOrphans runs the integrity sweep over the current manifest. With
// apply=false the manifest is left untouched and only the would-be count is
// returned; with apply=true the shrunken manifest is persisted through the
// regular commit path.
func (s *Service) PruneOrphans(ctx context.Context, apply bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentLocked()
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, errors.New("library: no manifest to prune")
	}

	working := current.Clone()
	removed, err := s.janitor.PruneOrphans(ctx, working)
	if err != nil {
		return 0, err
	}
	if removed == 0 || !apply {
		return removed, nil
	}

	if err := s.persistLocked(ctx, working); err != nil {
		return removed, err
	}
	s.current = working
	s.bus.Publish(events.Event{Type: events.OrphansPruned, Count: removed})
	return removed, nil
}

// RemoveTrack deletes a track from the manifest, the search index, and the
// media cache, then persists the manifest.
func (s *Service) RemoveTrack(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentLocked()
	if err != nil {
		return err
	}
	if current == nil {
		return errors.New("library: no manifest loaded")
	}

	working := current.Clone()
	if removed := working.RemoveTracks(map[string]struct{}{id: {}}); removed == 0 {
		return fmt.Errorf("library: track %q not found", id)
	}
	if err := s.persistLocked(ctx, working); err != nil {
		return err
	}
	s.current = working

	if err := s.index.Remove(id); err != nil {
		s.logger.Warn("failed to remove track from index",
			logging.String(logging.FieldTrackID, id), logging.Error(err))
	}
	if s.media != nil {
		if err := s.media.Remove(id); err != nil {
			s.logger.Warn("failed to remove cached media",
				logging.String(logging.FieldTrackID, id), logging.Error(err))
		}
	}
	s.bus.Publish(events.Event{Type: events.TrackRemoved, TrackID: id})
	return nil
}

// persistLocked writes an already-merged manifest through the standard
// order: local cache (best-effort), remote (authoritative), search index
// (best-effort). Callers hold the mutex.
func (s *Service) persistLocked(ctx context.Context, m *manifest.Manifest) error {
	if err := s.local.Save(m); err != nil {
		s.logger.Warn("failed to persist local manifest cache", logging.Error(err))
	}
	if s.remote != nil {
		data, err := m.Encode()
		if err != nil {
			return err
		}
		if err := s.remote.UploadDocument(ctx, manifest.Key, data); err != nil {
			return fmt.Errorf("push manifest: %w", err)
		}
	}
	if err := s.index.SyncFromManifest(m); err != nil {
		s.logger.Warn("search index sync failed", logging.Error(err))
	}
	return nil
}
