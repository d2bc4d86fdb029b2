// Package storage provides the object store behind the audio cache, with
// pluggable backends registered by their packages.
//
// # Backends
//
//   - storage/local: a directory on the local filesystem (default)
//   - storage/s3: Amazon S3 and S3-compatible services, for deployments
//     where several instances serve the same cached audio
//
// # Configuration
//
//	storage:
//	  provider: "s3"
//	  bucket: "speechturn-audio"
//	  region: "us-east-1"
package storage
