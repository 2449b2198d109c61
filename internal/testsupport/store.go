package testsupport

import (
	"testing"

	"tonearm/internal/config"
	"tonearm/internal/logging"
	"tonearm/internal/mediacache"
	"tonearm/internal/remotestore"
	"tonearm/internal/searchindex"
)

// MustOpenIndex opens a search index for tests and registers cleanup.
func MustOpenIndex(t testing.TB, cfg *config.Config) *searchindex.Index {
	t.Helper()

	index, err := searchindex.Open(cfg.SearchIndexPath(), logging.NewNop())
	if err != nil {
		t.Fatalf("searchindex.Open: %v", err)
	}
	t.Cleanup(func() {
		index.Close()
	})
	return index
}

// MustOpenMediaCache opens a media cache for tests and registers cleanup.
func MustOpenMediaCache(t testing.TB, cfg *config.Config) *mediacache.Cache {
	t.Helper()

	cache, err := mediacache.Open(cfg.Paths.CacheDir, cfg.MediaCacheBudget(), logging.NewNop())
	if err != nil {
		t.Fatalf("mediacache.Open: %v", err)
	}
	t.Cleanup(func() {
		cache.Close()
	})
	return cache
}

// MustOpenRemote builds the remote store the config describes, failing the
// test when the backend is misconfigured.
func MustOpenRemote(t testing.TB, cfg *config.Config) remotestore.Store {
	t.Helper()

	store, err := remotestore.New(cfg)
	if err != nil {
		t.Fatalf("remotestore.New: %v", err)
	}
	return store
}
