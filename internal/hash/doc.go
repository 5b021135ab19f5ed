// Package hash provides CRC32-Castagnoli checksums for dataset uploads.
//
// One-shot:
//
//	sum := hash.CRC32C(data)
//
// Streaming:
//
//	h := hash.NewCRC32C()
//	_, _ = h.Write(chunk1)
//	_, _ = h.Write(chunk2)
//	header := hash.EncodeCRC32C(h.Sum32())
package hash
