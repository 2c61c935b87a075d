// Package blobstore stores the chunks and manifests of out-of-core pattern
// arrays.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: S3-compatible servers through the MinIO client
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
