package mediacache

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskFree reports total and free bytes on the filesystem backing the cache
// directory. Used for CLI reporting only; eviction is driven by the budget.
func (c *Cache) DiskFree() (total, free uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(c.dir, &stat); err != nil {
		return 0, 0, fmt.Errorf("mediacache: statfs: %w", err)
	}
	total = stat.Blocks * uint64(stat.Bsize)
	free = stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
