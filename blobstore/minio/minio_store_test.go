package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kikgo/blobstore"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// TestMinioStore_Integration requires a running MinIO instance.
func TestMinioStore_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := New(ctx,
		envOr("MINIO_ENDPOINT", "localhost:9000"),
		envOr("MINIO_ACCESS_KEY", "minioadmin"),
		envOr("MINIO_SECRET_KEY", "minioadmin"),
		false,
		"test-kikgo",
		fmt.Sprintf("run-%d/", time.Now().UnixNano()),
	)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte("hello kikuchi world")
	require.NoError(t, store.Put(ctx, "dict/chunk-0", data))
	require.NoError(t, store.Put(ctx, "dict/manifest.json", []byte("{}")))

	blob, err := store.Open(ctx, "dict/chunk-0")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 7)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "kikuchi", string(buf[:n]))

	n, err = blob.ReadAt(ctx, buf, int64(len(data)-3))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "rld", string(buf[:n]))
	require.NoError(t, blob.Close())

	got, err := blobstore.Get(ctx, store, "dict/chunk-0")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dict/chunk-0", "dict/manifest.json"}, names)

	require.NoError(t, store.Delete(ctx, "dict/chunk-0"))
	require.NoError(t, store.Delete(ctx, "dict/manifest.json"))
	require.NoError(t, store.Delete(ctx, "dict/manifest.json"))

	_, err = store.Open(ctx, "dict/chunk-0")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStoreKey(t *testing.T) {
	assert.Equal(t, "a/b", NewStore(nil, "bucket", "/a/").key("b"))
	assert.Equal(t, "b", NewStore(nil, "bucket", "").key("b"))
}
