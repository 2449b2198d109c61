package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRemote(); err != nil {
		return err
	}
	if err := c.normalizeScanner(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.SearchIndex.Path) != "" {
		if c.SearchIndex.Path, err = expandPath(c.SearchIndex.Path); err != nil {
			return fmt.Errorf("search_index.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeRemote() error {
	c.Remote.Backend = strings.ToLower(strings.TrimSpace(c.Remote.Backend))
	c.Remote.Endpoint = strings.TrimSpace(c.Remote.Endpoint)
	c.Remote.Bucket = strings.TrimSpace(c.Remote.Bucket)
	if c.Remote.Backend == "directory" && strings.TrimSpace(c.Remote.Root) != "" {
		expanded, err := expandPath(c.Remote.Root)
		if err != nil {
			return fmt.Errorf("remote.root: %w", err)
		}
		c.Remote.Root = expanded
	}
	return nil
}

func (c *Config) normalizeScanner() error {
	if strings.TrimSpace(c.Scanner.MusicDir) != "" {
		expanded, err := expandPath(c.Scanner.MusicDir)
		if err != nil {
			return fmt.Errorf("scanner.music_dir: %w", err)
		}
		c.Scanner.MusicDir = expanded
	}
	if len(c.Scanner.Extensions) == 0 {
		c.Scanner.Extensions = append([]string(nil), defaultScanExtensions...)
	}
	for i, ext := range c.Scanner.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Scanner.Extensions[i] = ext
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}
