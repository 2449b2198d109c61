package resolver

import (
	"path/filepath"
	"testing"

	"tonearm/internal/logging"
	"tonearm/internal/manifest"
	"tonearm/internal/mediacache"
	"tonearm/internal/remotestore"
	"tonearm/internal/testsupport"
)

func newTestTiers(t *testing.T) (*mediacache.Cache, remotestore.Store) {
	t.Helper()
	cache, err := mediacache.Open(filepath.Join(t.TempDir(), "media"), 1<<20, logging.NewNop())
	if err != nil {
		t.Fatalf("mediacache.Open: %v", err)
	}
	t.Cleanup(func() {
		cache.Close()
	})
	store, err := remotestore.NewDirectory(filepath.Join(t.TempDir(), "remote"))
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return cache, store
}

func TestResolvePrefersLocalFile(t *testing.T) {
	cache, store := newTestTiers(t)
	r := New(cache, store, logging.NewNop())

	localPath := filepath.Join(t.TempDir(), "song.mp3")
	testsupport.WriteFile(t, localPath, 64)

	src := filepath.Join(t.TempDir(), "cached.mp3")
	testsupport.WriteFile(t, src, 64)
	if _, err := cache.Put("a", src, true); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	loc, ok := r.Resolve(manifest.Track{ID: "a", Format: "mp3", LocalPath: localPath})
	if !ok || loc.Source != SourceLocal || loc.URI != localPath {
		t.Fatalf("expected local tier, got %+v ok=%v", loc, ok)
	}
}

func TestResolveFallsBackToCache(t *testing.T) {
	cache, store := newTestTiers(t)
	r := New(cache, store, logging.NewNop())

	src := filepath.Join(t.TempDir(), "cached.mp3")
	testsupport.WriteFile(t, src, 64)
	cached, err := cache.Put("a", src, true)
	if err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	// A stale local path must not short-circuit the lookup.
	loc, ok := r.Resolve(manifest.Track{ID: "a", Format: "mp3", LocalPath: filepath.Join(t.TempDir(), "gone.mp3")})
	if !ok || loc.Source != SourceCache || loc.URI != cached {
		t.Fatalf("expected cache tier, got %+v ok=%v", loc, ok)
	}
}

func TestResolveFallsBackToRemote(t *testing.T) {
	cache, store := newTestTiers(t)
	r := New(cache, store, logging.NewNop())

	loc, ok := r.Resolve(manifest.Track{ID: "a", Format: "mp3"})
	if !ok || loc.Source != SourceRemote {
		t.Fatalf("expected remote tier, got %+v ok=%v", loc, ok)
	}
	if loc.URI == "" {
		t.Fatalf("remote tier must produce a URI")
	}
}

func TestResolveWithoutAnyTier(t *testing.T) {
	r := New(nil, nil, logging.NewNop())
	if _, ok := r.Resolve(manifest.Track{ID: "a"}); ok {
		t.Fatalf("no tier can serve, expected miss")
	}
}
