package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("missing file must report exists=false")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.MediaCache.MaxMiB != 2048 {
		t.Fatalf("default max_mib = %d", cfg.MediaCache.MaxMiB)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("default level = %q", cfg.Logging.Level)
	}
	if len(cfg.Scanner.Extensions) == 0 {
		t.Fatalf("default scan extensions missing")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
state_dir = "`+filepath.Join(base, "state")+`"

[remote]
backend = " Directory "
root = "`+filepath.Join(base, "remote")+`"

[scanner]
extensions = ["MP3", ".Flac"]

[logging]
level = "DEBUG"
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatalf("expected exists=true")
	}
	if cfg.Remote.Backend != "directory" {
		t.Fatalf("backend not normalized: %q", cfg.Remote.Backend)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not normalized: %q", cfg.Logging.Level)
	}
	want := []string{".mp3", ".flac"}
	for i, ext := range cfg.Scanner.Extensions {
		if ext != want[i] {
			t.Fatalf("extensions not normalized: %v", cfg.Scanner.Extensions)
		}
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"unknown backend": "[remote]\nbackend = \"ftp\"\n",
		"s3 without bucket": `[remote]
backend = "s3"
endpoint = "s3.example.com"
access_key = "k"
secret_key = "s"
`,
		"directory without root": "[remote]\nbackend = \"directory\"\n",
		"bad log level":          "[logging]\nlevel = \"verbose\"\n",
		"bad log format":         "[logging]\nformat = \"xml\"\n",
		"zero cache budget":      "[media_cache]\nenabled = true\nmax_mib = 0\n",
	}
	for name, contents := range cases {
		path := writeConfig(t, contents)
		if _, _, _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.StateDir = "/tmp/tonearm-state"

	if got := cfg.ManifestCachePath(); got != "/tmp/tonearm-state/manifest.json" {
		t.Fatalf("manifest cache path = %q", got)
	}
	if got := cfg.SearchIndexPath(); got != "/tmp/tonearm-state/index.db" {
		t.Fatalf("search index path = %q", got)
	}
	cfg.SearchIndex.Path = "/elsewhere/idx.db"
	if got := cfg.SearchIndexPath(); got != "/elsewhere/idx.db" {
		t.Fatalf("explicit search index path = %q", got)
	}

	cfg.MediaCache.MaxMiB = 3
	if got := cfg.MediaCacheBudget(); got != 3*1024*1024 {
		t.Fatalf("budget = %d", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.MediaCache.Enabled = true

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", dir, err)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/music")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("expand = %q", got)
	}

	got, err = ExpandPath("relative/dir")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expansion must be absolute, got %q", got)
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[remote]") {
		t.Fatalf("sample config missing [remote] section")
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
}
