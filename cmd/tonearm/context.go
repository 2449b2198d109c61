package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tonearm/internal/config"
	"tonearm/internal/library"
	"tonearm/internal/logging"
	"tonearm/internal/manifest"
	"tonearm/internal/mediacache"
	"tonearm/internal/remotestore"
	"tonearm/internal/searchindex"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withService builds the full service stack, holds the state lock for the
// duration of fn, and tears everything down afterwards. Only one tonearm
// process may mutate the state directory at a time.
func (c *commandContext) withService(fn func(*library.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "tonearm.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another tonearm process holds the state lock")
	}
	defer lock.Unlock()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	remote, err := remotestore.New(cfg)
	if err != nil {
		return fmt.Errorf("open remote store: %w", err)
	}

	index, err := searchindex.Open(cfg.SearchIndexPath(), logger)
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer index.Close()

	var media *mediacache.Cache
	if cfg.MediaCache.Enabled {
		media, err = mediacache.Open(cfg.Paths.CacheDir, cfg.MediaCacheBudget(), logger)
		if err != nil {
			return fmt.Errorf("open media cache: %w", err)
		}
		defer media.Close()
	}

	svc, err := library.New(library.Options{
		Config:        cfg,
		Remote:        remote,
		ManifestCache: manifest.NewCache(cfg.ManifestCachePath(), logger),
		SearchIndex:   index,
		MediaCache:    media,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	return fn(svc)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
