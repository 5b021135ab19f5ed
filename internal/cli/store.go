package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hupe1980/trialfacet/blobstore"
	"github.com/hupe1980/trialfacet/blobstore/minio"
	"github.com/hupe1980/trialfacet/blobstore/s3"
)

// openStore returns the blob store holding the dataset at raw and the
// dataset's name within it.
func openStore(ctx context.Context, cfg *Config, raw string) (blobstore.BlobStore, string, error) {
	loc, err := blobstore.ParseLocation(raw)
	if err != nil {
		return nil, "", err
	}

	switch loc.Scheme {
	case "file":
		return blobstore.NewLocalStore(filepath.Dir(loc.Key)), filepath.Base(loc.Key), nil
	case "s3":
		store, err := s3.New(ctx, loc.Bucket, s3.WithRegion(cfg.S3.Region), s3.WithEndpoint(cfg.S3.Endpoint))
		if err != nil {
			return nil, "", err
		}
		return store, loc.Key, nil
	case "minio":
		store, err := minio.New(cfg.MinIO, loc.Bucket, "")
		if err != nil {
			return nil, "", err
		}
		return store, loc.Key, nil
	default:
		return nil, "", fmt.Errorf("unsupported location %q", raw)
	}
}
