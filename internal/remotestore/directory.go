package remotestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tonearm/internal/fileutil"
)

// Directory implements Store over a local directory tree. Keys map onto
// relative paths under the root.
type Directory struct {
	root string
}

// NewDirectory creates a directory-backed store rooted at root.
func NewDirectory(root string) (*Directory, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("directory store: root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("directory store: create root: %w", err)
	}
	return &Directory{root: root}, nil
}

func (d *Directory) keyPath(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("directory store: invalid key %q", key)
	}
	return filepath.Join(d.root, cleaned), nil
}

// UploadDocument writes data to the file backing key.
func (d *Directory) UploadDocument(_ context.Context, key string, data []byte) error {
	path, err := d.keyPath(key)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("directory store: write %q: %w", key, err)
	}
	return nil
}

// DownloadDocument reads the file backing key.
func (d *Directory) DownloadDocument(_ context.Context, key string) ([]byte, bool, error) {
	path, err := d.keyPath(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("directory store: read %q: %w", key, err)
	}
	return data, true, nil
}

// ListObjects walks the tree under prefix.
func (d *Directory) ListObjects(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{Key: key, Size: info.Size(), Modified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("directory store: list %q: %w", prefix, err)
	}
	return objects, nil
}

// DeleteObject removes the file backing key.
func (d *Directory) DeleteObject(_ context.Context, key string) error {
	path, err := d.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("directory store: delete %q: %w", key, err)
	}
	return nil
}

// ObjectExists stats the file backing key.
func (d *Directory) ObjectExists(_ context.Context, key string) (bool, error) {
	path, err := d.keyPath(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("directory store: stat %q: %w", key, err)
	}
	return true, nil
}

// ObjectURL returns the backing file path for key.
func (d *Directory) ObjectURL(key string) (string, error) {
	return d.keyPath(key)
}
