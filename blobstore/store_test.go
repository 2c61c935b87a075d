package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	ctx := context.Background()
	data := []byte("hello world, this is a pattern chunk")

	require.NoError(t, store.Put(ctx, "dict/chunk-000000", data))
	require.NoError(t, store.Put(ctx, "dict/manifest.json", []byte(`{}`)))
	require.NoError(t, store.Put(ctx, "scan/chunk-000000", []byte("x")))

	blob, err := store.Open(ctx, "dict/chunk-000000")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	n, err = blob.ReadAt(ctx, make([]byte, 10), int64(len(data)-3))
	assert.Equal(t, 3, n)
	assert.Equal(t, io.EOF, err)
	require.NoError(t, blob.Close())

	got, err := Get(ctx, store, "dict/chunk-000000")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "dict/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dict/chunk-000000", "dict/manifest.json"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Overwrite replaces content.
	require.NoError(t, store.Put(ctx, "scan/chunk-000000", []byte("yz")))
	got, err = Get(ctx, store, "scan/chunk-000000")
	require.NoError(t, err)
	assert.Equal(t, []byte("yz"), got)

	require.NoError(t, store.Delete(ctx, "dict/manifest.json"))
	require.NoError(t, store.Delete(ctx, "dict/manifest.json"))
	_, err = store.Open(ctx, "dict/manifest.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesInput(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 'x'

	got, err := Get(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	testStore(t, NewLocalStore(dir))

	_, err := os.Stat(filepath.Join(dir, "dict", "chunk-000000"))
	assert.NoError(t, err)
}

func TestLocalStoreDeletePrunesEmptyDirs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewLocalStore(dir)

	require.NoError(t, store.Put(ctx, "dict/g1/chunk-000000000", []byte("a")))
	require.NoError(t, store.Put(ctx, "dict/g1/chunk-000000004", []byte("b")))
	require.NoError(t, store.Put(ctx, "dict/manifest.json", []byte(`{}`)))

	require.NoError(t, store.Delete(ctx, "dict/g1/chunk-000000000"))
	_, err := os.Stat(filepath.Join(dir, "dict", "g1"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "dict/g1/chunk-000000004"))
	_, err = os.Stat(filepath.Join(dir, "dict", "g1"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(dir, "dict"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "dict/manifest.json"))
	_, err = os.Stat(filepath.Join(dir, "dict"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestLocalStoreSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-chunk-1"), []byte("partial"), 0o644))

	store := NewLocalStore(dir)
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStoreMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalBlobCanceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), "a", []byte("abc")))

	blob, err := store.Open(context.Background(), "a")
	require.NoError(t, err)
	defer blob.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = blob.ReadAt(ctx, make([]byte, 1), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadAllEmpty(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "empty", nil))

	got, err := Get(context.Background(), store, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}
