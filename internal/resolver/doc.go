// Package resolver picks the best currently-playable location for a track.
//
// The tiers are: the track's own local path if the file exists right now, a
// media cache hit, then a remote access URL when a remote store is
// configured. The whole lookup costs one stat, one indexed cache lookup, and
// at most one URL construction; remote existence is never re-verified here.
package resolver
