// Package dataset loads and stores entity datasets in blob stores.
//
// The file name selects the format: an optional compression suffix (".zst",
// ".lz4") on top of a codec extension (".json", ".msgpack"). A dataset is a
// single array of entities.
package dataset

import (
	"context"
	"fmt"

	"github.com/hupe1980/trialfacet/blobstore"
	"github.com/hupe1980/trialfacet/codec"
)

// Load reads and decodes the dataset stored under name.
func Load[E any](ctx context.Context, store blobstore.BlobStore, name string) ([]E, error) {
	raw, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", name, err)
	}
	return Decode[E](name, raw)
}

// Decode decodes raw file contents, interpreting them by name.
func Decode[E any](name string, raw []byte) ([]E, error) {
	data, err := Decompress(raw, CompressionFor(name))
	if err != nil {
		return nil, err
	}
	c := codec.ForExtension(name)
	var entities []E
	if err := c.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("dataset: decode %s as %s: %w", name, c.Name(), err)
	}
	return entities, nil
}

// Save encodes entities and stores them under name.
func Save[E any](ctx context.Context, store blobstore.BlobStore, name string, entities []E) error {
	data, err := Encode(name, entities)
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}

// Encode encodes entities in the format name selects.
func Encode[E any](name string, entities []E) ([]byte, error) {
	c := codec.ForExtension(name)
	data, err := c.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("dataset: encode %s as %s: %w", name, c.Name(), err)
	}
	return Compress(data, CompressionFor(name))
}
