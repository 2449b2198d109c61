package searchindex

import (
	"path/filepath"
	"testing"

	"tonearm/internal/logging"
	"tonearm/internal/manifest"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	index, err := Open(filepath.Join(t.TempDir(), "index.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		index.Close()
	})
	return index
}

func manifestWith(tracks ...manifest.Track) *manifest.Manifest {
	m := manifest.New()
	for _, track := range tracks {
		m.UpsertTrack(track)
	}
	return m
}

func TestSyncMirrorsManifest(t *testing.T) {
	index := openTestIndex(t)

	m := manifestWith(
		manifest.Track{ID: "a", Title: "Alpha", Artist: "Ann", Album: "First", Duration: 180},
		manifest.Track{ID: "b", Title: "Beta", Artist: "Bob", Album: "Second"},
	)
	if err := index.SyncFromManifest(m); err != nil {
		t.Fatalf("sync: %v", err)
	}

	count, err := index.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	track, ok, err := index.Get("a")
	if err != nil || !ok {
		t.Fatalf("get a: ok=%v err=%v", ok, err)
	}
	if track.Title != "Alpha" || track.Artist != "Ann" || track.Duration != 180 {
		t.Fatalf("unexpected track: %+v", track)
	}
}

func TestSyncRemovesTombstones(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a"},
		manifest.Track{ID: "b"},
	)); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "b"},
	)); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if _, ok, _ := index.Get("a"); ok {
		t.Fatalf("track a should have been tombstoned")
	}
	if _, ok, _ := index.Get("b"); !ok {
		t.Fatalf("track b should remain")
	}
}

func TestSyncNeverRegressesIsLocal(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", IsLocal: true, LocalPath: "/music/a.mp3"},
	)); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	// A remote-derived manifest may lose track of locality; the index keeps
	// the stronger claim.
	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", IsLocal: false},
	)); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	track, ok, err := index.Get("a")
	if err != nil || !ok {
		t.Fatalf("get a: ok=%v err=%v", ok, err)
	}
	if !track.IsLocal {
		t.Fatalf("is_local must never be downgraded")
	}
	if track.LocalPath != "/music/a.mp3" {
		t.Fatalf("empty incoming local_path must not clobber the stored one, got %q", track.LocalPath)
	}
}

func TestSyncUpdatesLocalPathWhenProvided(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", LocalPath: "/old/a.mp3"},
	)); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", LocalPath: "/new/a.mp3"},
	)); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	track, _, err := index.Get("a")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if track.LocalPath != "/new/a.mp3" {
		t.Fatalf("non-empty local_path must replace the stored one, got %q", track.LocalPath)
	}
}

func TestRemoveAndClear(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a"},
		manifest.Track{ID: "b"},
	)); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := index.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := index.Get("a"); ok {
		t.Fatalf("track a should be removed")
	}
	if err := index.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	count, err := index.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty index, got %d rows", count)
	}
}

func TestAllOrdersForDisplay(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "2", Artist: "Ann", Album: "First", TrackNumber: 2, Title: "Second"},
		manifest.Track{ID: "1", Artist: "Ann", Album: "First", TrackNumber: 1, Title: "First"},
		manifest.Track{ID: "3", Artist: "Bob", Album: "Other", TrackNumber: 1, Title: "Third"},
	)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	tracks, err := index.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	got := make([]string, 0, len(tracks))
	for _, track := range tracks {
		got = append(got, track.ID)
	}
	want := []string{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
