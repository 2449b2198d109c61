package janitor

import (
	"context"
	"path/filepath"
	"testing"

	"tonearm/internal/logging"
	"tonearm/internal/manifest"
	"tonearm/internal/remotestore"
	"tonearm/internal/testsupport"
)

func newDirectoryStore(t *testing.T) remotestore.Store {
	t.Helper()
	store, err := remotestore.NewDirectory(filepath.Join(t.TempDir(), "remote"))
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return store
}

func TestPruneOrphans(t *testing.T) {
	store := newDirectoryStore(t)
	ctx := context.Background()

	remoteTrack := manifest.Track{ID: "remote-only", Format: "mp3"}
	if err := store.UploadDocument(ctx, remoteTrack.ObjectKey(), []byte("audio")); err != nil {
		t.Fatalf("seed remote object: %v", err)
	}

	localPath := filepath.Join(t.TempDir(), "local.mp3")
	testsupport.WriteFile(t, localPath, 64)

	m := manifest.New()
	m.UpsertTrack(remoteTrack)
	m.UpsertTrack(manifest.Track{ID: "local-only", LocalPath: localPath})
	m.UpsertTrack(manifest.Track{ID: "orphan", Format: "mp3", LocalPath: filepath.Join(t.TempDir(), "gone.mp3")})
	m.UpsertTrack(manifest.Track{ID: "pathless-orphan", Format: "mp3"})
	m.Playlists["mix"] = []string{"remote-only", "orphan", "pathless-orphan"}

	removed, err := New(store, logging.NewNop()).PruneOrphans(ctx, m)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 orphans removed, got %d", removed)
	}
	for _, id := range []string{"remote-only", "local-only"} {
		if _, ok := m.TrackByID(id); !ok {
			t.Fatalf("track %s must survive", id)
		}
	}
	for _, id := range []string{"orphan", "pathless-orphan"} {
		if _, ok := m.TrackByID(id); ok {
			t.Fatalf("track %s should be pruned", id)
		}
	}
	if got := m.Playlists["mix"]; len(got) != 1 || got[0] != "remote-only" {
		t.Fatalf("playlist not scrubbed: %v", got)
	}
}

func TestPruneOrphansRequiresRemote(t *testing.T) {
	j := New(nil, logging.NewNop())
	if _, err := j.PruneOrphans(context.Background(), manifest.New()); err == nil {
		t.Fatalf("expected error without a remote store")
	}
}

func TestPruneOrphansNoopWhenEverythingBacked(t *testing.T) {
	store := newDirectoryStore(t)
	ctx := context.Background()

	track := manifest.Track{ID: "a", Format: "mp3"}
	if err := store.UploadDocument(ctx, track.ObjectKey(), []byte("audio")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := manifest.New()
	m.UpsertTrack(track)

	removed, err := New(store, logging.NewNop()).PruneOrphans(ctx, m)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 || len(m.Tracks) != 1 {
		t.Fatalf("fully backed manifest must be untouched, removed=%d", removed)
	}
}

func TestLocalFileState(t *testing.T) {
	if exists, ok := localFileState(""); exists || !ok {
		t.Fatalf("empty path = (%v, %v), want (false, true)", exists, ok)
	}

	path := filepath.Join(t.TempDir(), "file.mp3")
	testsupport.WriteFile(t, path, 1)
	if exists, ok := localFileState(path); !exists || !ok {
		t.Fatalf("existing file = (%v, %v), want (true, true)", exists, ok)
	}
	if exists, ok := localFileState(filepath.Join(t.TempDir(), "missing")); exists || !ok {
		t.Fatalf("missing file = (%v, %v), want (false, true)", exists, ok)
	}
	if exists, ok := localFileState(t.TempDir()); exists || !ok {
		t.Fatalf("directory = (%v, %v), want (false, true)", exists, ok)
	}
}
