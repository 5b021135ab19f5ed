// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "trial-data",
//	    s3.WithPrefix("study-042/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	events, err := dataset.Load[catalog.AdverseEvent](ctx, store, "ae.json.zst")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart streaming uploads for large result payloads
//   - CRC32C checksums on single-request uploads
//   - Automatic pagination for listing
package s3
