package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and any missing parent directories) with size bytes
// of a cycling payload, so two files of different sizes never hash alike.
// Sizes at or below zero produce a one-byte file.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	buf := make([]byte, 16*1024)
	for i := range buf {
		buf[i] = byte('a' + i%26)
	}
	for written := int64(0); written < size; {
		chunk := int64(len(buf))
		if size-written < chunk {
			chunk = size - written
		}
		if _, err := f.Write(buf[:chunk]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		written += chunk
	}
}
