// Package mediacache stores media bytes in a size-bounded local disk cache.
//
// Entries are keyed by track id. A SQLite index inside the cache directory
// records path, size, last access time, and access count; eviction removes
// the least recently used entries until the configured budget is satisfied.
// A single entry larger than the whole budget is still cached (after
// evicting everything else) so currently-needed content is never refused.
//
// # Ordering
//
// Files are written before their index rows, and deleted files drop their
// index rows immediately, so the index never references bytes that are not
// on disk. Reads self-heal: a hit whose file has vanished out-of-band is
// reported as a miss and its stale row removed.
//
// All index mutations are serialized through one mutex per cache instance.
package mediacache
