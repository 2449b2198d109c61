package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateMediaCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRemote() error {
	switch c.Remote.Backend {
	case "":
		return nil
	case "s3":
		if c.Remote.Endpoint == "" {
			return errors.New("remote.endpoint must be set when remote.backend is \"s3\"")
		}
		if c.Remote.Bucket == "" {
			return errors.New("remote.bucket must be set when remote.backend is \"s3\"")
		}
		if strings.TrimSpace(c.Remote.AccessKey) == "" || strings.TrimSpace(c.Remote.SecretKey) == "" {
			return errors.New("remote.access_key and remote.secret_key must be set when remote.backend is \"s3\"")
		}
		return nil
	case "directory":
		if strings.TrimSpace(c.Remote.Root) == "" {
			return errors.New("remote.root must be set when remote.backend is \"directory\"")
		}
		return nil
	default:
		return fmt.Errorf("remote.backend: unsupported value %q", c.Remote.Backend)
	}
}

func (c *Config) validateMediaCache() error {
	if !c.MediaCache.Enabled {
		return nil
	}
	if c.MediaCache.MaxMiB <= 0 {
		return errors.New("media_cache.max_mib must be positive when media_cache.enabled is true")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set when media_cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
