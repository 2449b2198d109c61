package testsupport

import (
	"path/filepath"
	"testing"

	"tonearm/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scanner.MusicDir = filepath.Join(base, "music")
	cfgVal.Remote.Backend = "directory"
	cfgVal.Remote.Root = filepath.Join(base, "remote")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithoutRemote clears the remote backend so the config runs offline.
func WithoutRemote() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.Backend = ""
		b.cfg.Remote.Root = ""
	}
}

// WithCacheBudget sets the media cache size limit in MiB.
func WithCacheBudget(mib int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.MediaCache.MaxMiB = mib
	}
}
