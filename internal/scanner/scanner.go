package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"tonearm/internal/config"
	"tonearm/internal/fileutil"
	"tonearm/internal/logging"
	"tonearm/internal/manifest"
)

// Scanner walks a music directory and turns new files into tracks.
type Scanner struct {
	dir    string
	exts   map[string]struct{}
	logger *slog.Logger
}

// New creates a scanner from the scanner configuration.
func New(cfg config.Scanner, logger *slog.Logger) *Scanner {
	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		if ext != "" {
			exts[ext] = struct{}{}
		}
	}
	return &Scanner{
		dir:    cfg.MusicDir,
		exts:   exts,
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan walks the music directory and appends a track for every file not yet
// claimed by m. Unreadable files are skipped, not fatal. Returns the number
// of tracks added.
func (s *Scanner) Scan(ctx context.Context, m *manifest.Manifest) (int, error) {
	if strings.TrimSpace(s.dir) == "" {
		return 0, errors.New("scanner: music directory is not configured")
	}

	claimed := make(map[string]struct{}, len(m.Tracks))
	for _, track := range m.Tracks {
		if track.LocalPath != "" {
			claimed[track.LocalPath] = struct{}{}
		}
	}

	added := 0
	err := filepath.WalkDir(s.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := s.exts[ext]; !ok {
			return nil
		}
		if _, ok := claimed[path]; ok {
			return nil
		}

		track, buildErr := s.buildTrack(path)
		if buildErr != nil {
			s.logger.Warn("skipping unreadable file",
				logging.String(logging.FieldPath, path),
				logging.Error(buildErr))
			return nil
		}
		m.UpsertTrack(track)
		claimed[path] = struct{}{}
		added++
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("scanner: walk %q: %w", s.dir, err)
	}

	if added > 0 {
		s.logger.Info("discovered local tracks", logging.Int("added", added))
	}
	return added, nil
}

func (s *Scanner) buildTrack(path string) (manifest.Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return manifest.Track{}, err
	}

	checksum, err := fileutil.HashFile(path)
	if err != nil {
		return manifest.Track{}, err
	}

	base := filepath.Base(path)
	track := manifest.Track{
		ID:               uuid.NewString(),
		Title:            strings.TrimSuffix(base, filepath.Ext(base)),
		Checksum:         checksum,
		OriginalFilename: base,
		FileSize:         info.Size(),
		Format:           strings.TrimPrefix(strings.ToLower(filepath.Ext(base)), "."),
		IsLocal:          true,
		LocalPath:        path,
	}

	file, err := os.Open(path)
	if err != nil {
		return manifest.Track{}, err
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		// No usable tags; the filename-derived track stands.
		return track, nil
	}
	if title := strings.TrimSpace(meta.Title()); title != "" {
		track.Title = title
	}
	track.Artist = strings.TrimSpace(meta.Artist())
	track.Album = strings.TrimSpace(meta.Album())
	track.Genre = strings.TrimSpace(meta.Genre())
	track.Year = meta.Year()
	track.TrackNumber, _ = meta.Track()
	return track, nil
}
