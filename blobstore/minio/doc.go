// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems (Ceph, SeaweedFS,
// Garage) and needs no AWS configuration, which suits on-premise trial
// data warehouses.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "trial-data", "study-042/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	labs, err := dataset.Load[catalog.LabResult](ctx, store, "labs.msgpack.lz4")
package minio
