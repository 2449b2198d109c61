// Package janitor runs the integrity sweep that removes manifest tracks
// backed by neither a local file nor a remote object.
//
// The sweep fetches one remote listing up front and then costs one stat per
// track; it never issues per-track remote round-trips. Orphans are removed
// from the in-memory manifest and from every playlist referencing them, and
// the caller decides whether to persist the shrunken manifest.
package janitor
