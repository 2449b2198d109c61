package searchindex

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"tonearm/internal/manifest"
)

// fold case-folds value with a fresh Caser. Casers carry per-use state, so a
// shared one would not be safe across concurrent Search and sync calls.
func fold(value string) string {
	return cases.Fold().String(value)
}

// Search returns tracks whose title, artist, or album contains the query as a
// substring. Matching is case-insensitive via Unicode case folding. An empty
// query returns every track.
func (x *Index) Search(query string) ([]manifest.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return x.All()
	}

	pattern := "%" + escapeLike(fold(query)) + "%"
	rows, err := x.db.Query(
		`SELECT `+trackColumns+` FROM tracks WHERE search_text LIKE ? ESCAPE '\'
         ORDER BY artist, album, track_number, title`, pattern)
	if err != nil {
		return nil, fmt.Errorf("searchindex: search %q: %w", query, err)
	}
	return collectTracks(rows)
}

// searchText builds the folded haystack persisted alongside each row so LIKE
// matching stays case-insensitive beyond ASCII.
func searchText(track manifest.Track) string {
	return fold(track.Title + "\n" + track.Artist + "\n" + track.Album)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
