package remotestore

import (
	"context"
	"fmt"
	"time"

	"tonearm/internal/config"
)

// ObjectInfo describes one remote object in a listing.
type ObjectInfo struct {
	Key      string
	Size     int64
	Modified time.Time
}

// Store is the storage collaborator contract. Document helpers move small
// JSON payloads; object helpers address media bytes by key. Absence is
// reported through the boolean returns, not errors.
type Store interface {
	// UploadDocument writes a small document to key, replacing any existing one.
	UploadDocument(ctx context.Context, key string, data []byte) error

	// DownloadDocument fetches a document; the boolean is false when the key
	// does not exist.
	DownloadDocument(ctx context.Context, key string) ([]byte, bool, error)

	// ListObjects returns every object whose key starts with prefix.
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// DeleteObject removes the object at key. Deleting a missing key is not
	// an error.
	DeleteObject(ctx context.Context, key string) error

	// ObjectExists reports whether key currently exists.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// ObjectURL returns an access URL for key without any network round-trip.
	// Existence is not verified; integrity sweeps keep ghost keys out of the
	// manifest.
	ObjectURL(key string) (string, error)
}

// New builds a Store from configuration. A nil store with no error means no
// remote backend is configured (offline mode).
func New(cfg *config.Config) (Store, error) {
	switch cfg.Remote.Backend {
	case "":
		return nil, nil
	case "s3":
		return NewS3(cfg.Remote)
	case "directory":
		return NewDirectory(cfg.Remote.Root)
	default:
		return nil, fmt.Errorf("remote backend: unsupported value %q", cfg.Remote.Backend)
	}
}
