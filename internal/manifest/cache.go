package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"tonearm/internal/fileutil"
	"tonearm/internal/logging"
)

// Cache persists the last successfully reconciled manifest to a JSON file.
type Cache struct {
	path   string
	logger *slog.Logger
}

// NewCache creates a manifest cache at path.
func NewCache(path string, logger *slog.Logger) *Cache {
	return &Cache{
		path:   path,
		logger: logging.NewComponentLogger(logger, "manifestcache"),
	}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached manifest. The boolean reports presence: a missing or
// unparseable file yields (nil, false, nil) so a corrupt cache degrades to a
// fresh start instead of blocking reconciliation.
func (c *Cache) Load() (*Manifest, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read manifest cache: %w", err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	m, err := Decode(data)
	if err != nil {
		c.logger.Warn("manifest cache unreadable, treating as absent",
			logging.String(logging.FieldPath, c.path),
			logging.Error(err))
		return nil, false, nil
	}
	return m, true, nil
}

// Save writes the manifest atomically.
func (c *Cache) Save(m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("persist manifest cache: %w", err)
	}
	c.logger.Debug("saved manifest cache",
		logging.Int(logging.FieldVersion, m.Version),
		logging.Int("track_count", len(m.Tracks)))
	return nil
}

// Remove deletes the cache file. Missing files are not an error.
func (c *Cache) Remove() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove manifest cache: %w", err)
	}
	return nil
}
