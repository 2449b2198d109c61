// Package manifest defines the library manifest document and its on-disk cache.
//
// A manifest enumerates every track, playlist, and setting for one library.
// The JSON field names and the remote object-key convention are interop
// surfaces shared with other clients; do not rename them.
//
// The Cache type persists the last successfully reconciled manifest to a
// single JSON file using an atomic temp-file rename. A corrupt or missing
// file is treated as an absent manifest rather than an error so reconciliation
// can always proceed from a fresh state.
package manifest
