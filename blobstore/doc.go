// Package blobstore provides storage abstraction for datasets and results.
//
// BlobStore is the interface for reading entity datasets and writing
// available-filter payloads. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, memory-mapped reads
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Locations
//
// Datasets are addressed by a location string that ParseLocation splits into
// scheme, bucket and key:
//
//	adverse-events.json.zst            local file
//	s3://trial-data/ae.json.zst        Amazon S3
//	minio://trial-data/labs.msgpack    MinIO
package blobstore
