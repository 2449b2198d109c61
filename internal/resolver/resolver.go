package resolver

import (
	"log/slog"

	"tonearm/internal/fileutil"
	"tonearm/internal/logging"
	"tonearm/internal/manifest"
	"tonearm/internal/mediacache"
	"tonearm/internal/remotestore"
)

// Source identifies which tier produced a location.
type Source string

const (
	SourceLocal  Source = "local"
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Location is a playable URI plus the tier it came from. For local and cache
// tiers the URI is a filesystem path.
type Location struct {
	Source Source
	URI    string
}

// Resolver performs the tiered lookup. Cache and remote may each be nil.
type Resolver struct {
	cache  *mediacache.Cache
	remote remotestore.Store
	logger *slog.Logger
}

// New creates a resolver over the given tiers.
func New(cache *mediacache.Cache, remote remotestore.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		remote: remote,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve returns the first available location for the track, or false when
// none exists. A cache index error degrades to a miss so playback can still
// fall through to the remote tier.
func (r *Resolver) Resolve(track manifest.Track) (Location, bool) {
	if track.LocalPath != "" && fileutil.FileExists(track.LocalPath) {
		return Location{Source: SourceLocal, URI: track.LocalPath}, true
	}

	if r.cache != nil {
		path, hit, err := r.cache.Get(track.ID)
		if err != nil {
			r.logger.Warn("cache lookup failed, falling through",
				logging.String(logging.FieldTrackID, track.ID),
				logging.Error(err))
		} else if hit {
			return Location{Source: SourceCache, URI: path}, true
		}
	}

	if r.remote != nil {
		url, err := r.remote.ObjectURL(track.ObjectKey())
		if err != nil {
			r.logger.Warn("remote url construction failed",
				logging.String(logging.FieldTrackID, track.ID),
				logging.Error(err))
			return Location{}, false
		}
		return Location{Source: SourceRemote, URI: url}, true
	}

	return Location{}, false
}
