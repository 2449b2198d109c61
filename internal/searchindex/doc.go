// Package searchindex maintains a queryable local mirror of the manifest's
// tracks in SQLite.
//
// SyncFromManifest applies one all-or-nothing transaction per sync: indexed
// tracks absent from the manifest are removed, the rest upserted. Upserts
// overwrite descriptive fields but never regress local availability: is_local
// only escalates from false to true, and a known local path survives an
// incoming empty one. This keeps a remote-sourced sync from erasing the fact
// that a copy exists on this device.
//
// The index is always rebuildable from a manifest, so callers treat sync
// failures as non-fatal.
package searchindex
