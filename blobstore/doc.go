// Package blobstore abstracts where corpus files are read from and where
// assignments are written to.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads and atomic writes
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Implementations must be safe for concurrent use. A blob written through
// Create becomes visible to Open only after Close returns without error.
package blobstore
