// Command tonearm is the CLI for the tonearm music library. It reconciles a
// local music collection against a remote manifest, maintains a bounded media
// cache and a local search index, and offers maintenance commands for
// pruning, cache management, and destructive resets.
package main
