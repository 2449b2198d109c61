// Package scanner discovers media files in the local music directory and
// promotes them into manifest tracks.
//
// Discovered tracks are merged into the local manifest only; the reconciler
// decides whether they survive into the authoritative merged manifest. Files
// whose paths are already claimed by a track are left alone, so re-scanning
// is cheap and id-stable. Embedded tags are read with dhowden/tag; files
// without usable tags fall back to filename-derived titles.
package scanner
