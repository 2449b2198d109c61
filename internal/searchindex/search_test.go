package searchindex

import (
	"testing"

	"tonearm/internal/manifest"
)

func TestSearchMatchesTitleArtistAlbum(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", Title: "Harvest Moon", Artist: "Neil Young", Album: "Harvest Moon"},
		manifest.Track{ID: "b", Title: "Heart of Gold", Artist: "Neil Young", Album: "Harvest"},
		manifest.Track{ID: "c", Title: "Unrelated", Artist: "Someone", Album: "Else"},
	)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	results, err := index.Search("harvest")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}

	results, err = index.Search("NEIL")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("matching must be case-insensitive, got %d", len(results))
	}

	results, err = index.Search("nothing here")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no matches, got %d", len(results))
	}
}

func TestSearchFoldsBeyondASCII(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", Title: "Größenwahn", Artist: "Band"},
	)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	results, err := index.Search("GRÖSSENWAHN")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected folded match, got %d", len(results))
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a"},
		manifest.Track{ID: "b"},
	)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	results, err := index.Search("  ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("empty query must return every track, got %d", len(results))
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	index := openTestIndex(t)

	if err := index.SyncFromManifest(manifestWith(
		manifest.Track{ID: "a", Title: "100% Pure"},
		manifest.Track{ID: "b", Title: "Impure"},
	)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	results, err := index.Search("100%")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Fatalf("%% must match literally, got %v", results)
	}

	if got := escapeLike(`50%_\`); got != `50\%\_\\` {
		t.Fatalf("escapeLike = %q", got)
	}
}
