// Package remotestore is the narrow object-storage interface the library core
// consumes: one JSON document plus media objects addressed by key.
//
// Two backends exist. The s3 backend talks to any S3-compatible endpoint via
// minio-go. The directory backend maps keys onto a local or mounted directory
// tree, which keeps tests hermetic and supports "remote" storage on an
// external drive. Callers treat every operation as a blocking call and own
// their timeout policy through the context.
package remotestore
