package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trialfacet/blobstore"
	"github.com/hupe1980/trialfacet/internal/dataset"
)

type event struct {
	ID       int64  `json:"id" msgpack:"id"`
	Term     string `json:"term" msgpack:"term"`
	Severity string `json:"severity" msgpack:"severity"`
}

// Runs against a real bucket: S3_BUCKET plus the usual AWS environment.
func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("S3_BUCKET not set")
	}

	ctx := context.Background()
	store, err := New(ctx, bucket,
		WithPrefix(fmt.Sprintf("trialfacet-it-%d", time.Now().UnixNano())),
		WithEndpoint(os.Getenv("S3_ENDPOINT")),
	)
	require.NoError(t, err)

	events := make([]event, 2000)
	for i := range events {
		events[i] = event{ID: int64(i + 1), Term: fmt.Sprintf("term-%d", i%37), Severity: []string{"Mild", "Moderate", "Severe"}[i%3]}
	}

	for _, name := range []string{"studies/s01/ae.json.zst", "studies/s01/ae.msgpack.lz4"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, dataset.Save(ctx, store, name, events))
			t.Cleanup(func() { _ = store.Delete(ctx, name) })

			got, err := dataset.Load[event](ctx, store, name)
			require.NoError(t, err)
			assert.Equal(t, events, got)
		})
	}

	t.Run("streamed upload and ranged reads", func(t *testing.T) {
		name := "raw/ae.json"
		data := []byte(`[{"id":1,"term":"Nausea","severity":"Mild"}]`)

		w, err := store.Create(ctx, name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		t.Cleanup(func() { _ = store.Delete(ctx, name) })

		names, err := store.List(ctx, "raw/")
		require.NoError(t, err)
		assert.Equal(t, []string{name}, names)

		blob, err := store.Open(ctx, name)
		require.NoError(t, err)
		defer blob.Close()
		assert.Equal(t, int64(len(data)), blob.Size())

		buf := make([]byte, 8)
		_, err = blob.ReadAt(ctx, buf, 16)
		require.NoError(t, err)
		assert.Equal(t, `"Nausea"`, string(buf))

		rc, err := blob.ReadRange(ctx, 2, 4)
		require.NoError(t, err)
		part, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, `"id"`, string(part))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing.json")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
