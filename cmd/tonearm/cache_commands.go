package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tonearm/internal/logging"
	"tonearm/internal/mediacache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Media cache utilities",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

// withMediaCache opens just the media cache. Cache maintenance does not need
// the remote store or the search index.
func (c *commandContext) withMediaCache(fn func(*mediacache.Cache) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.MediaCache.Enabled {
		return fmt.Errorf("media cache is disabled in the configuration")
	}
	cache, err := mediacache.Open(cfg.Paths.CacheDir, cfg.MediaCacheBudget(), logging.NewNop())
	if err != nil {
		return fmt.Errorf("open media cache: %w", err)
	}
	defer cache.Close()
	return fn(cache)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show media cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMediaCache(func(cache *mediacache.Cache) error {
				stats, err := cache.Stats()
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Entries", fmt.Sprintf("%d", stats.Entries)},
					{"Used", humanize.IBytes(uint64(stats.TotalBytes))},
					{"Budget", humanize.IBytes(uint64(stats.MaxBytes))},
				}
				if _, free, err := cache.DiskFree(); err == nil {
					rows = append(rows, []string{"Disk free", humanize.IBytes(free)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Value"}, rows,
					[]columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var targetMiB int64

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Evict least recently used entries down to a target size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMediaCache(func(cache *mediacache.Cache) error {
				before, err := cache.Usage()
				if err != nil {
					return err
				}
				if err := cache.PruneToSize(targetMiB * 1024 * 1024); err != nil {
					return err
				}
				after, err := cache.Usage()
				if err != nil {
					return err
				}
				freed := before - after
				if freed < 0 {
					freed = 0
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Freed %s\n", humanize.IBytes(uint64(freed)))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&targetMiB, "target-mib", 0, "Target cache size in MiB after pruning")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached media file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withMediaCache(func(cache *mediacache.Cache) error {
				if err := cache.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Media cache cleared.")
				return nil
			})
		},
	}
}
