// Package library owns the authoritative in-memory manifest and the
// reconciliation that produces it.
//
// Sync merges the remote manifest with the locally cached one, persists the
// result to the local cache (best-effort), the remote store (authoritative),
// and the search index (best-effort), in that order. No cross-device lock is
// taken: this is a last-full-write-wins design, and two devices reconciling
// concurrently may each lose the other's local-only additions. That is a
// stated limitation of the format, not something this package papers over.
//
// A manifest present on only one side is adopted verbatim, version included;
// the version counter advances past the larger input only when two manifests
// are actually merged. Re-running a merge of the same two inputs therefore
// keeps producing new versions, and that is accepted.
//
// When both sides know a track id, the remote copy is the metadata authority
// and only the local path is adopted from the local side. Two devices that
// scanned two different physical files for "the same song" therefore keep two
// distinct tracks under two ids; no content-hash unification is attempted.
package library
