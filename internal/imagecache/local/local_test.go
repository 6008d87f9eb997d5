package local

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulife/edulife-admin/internal/imagecache"
)

func TestLocalImageStorePutAndGet(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalImageStore(tmpdir)
	require.NoError(t, err)

	ctx := context.Background()
	imageData := []byte("fake png data")
	key := imagecache.Key("http://localhost:5000/uploads/a.png")

	// Put
	require.NoError(t, store.Put(ctx, key, "image/png", bytes.NewReader(imageData)))

	// Get
	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", mimeType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestLocalImageStorePutReplacesOtherFormat(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalImageStore(tmpdir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", "image/jpeg", bytes.NewReader([]byte("jpeg"))))
	require.NoError(t, store.Put(ctx, "k", "image/webp", bytes.NewReader([]byte("webp"))))

	reader, mimeType, err := store.Get(ctx, "k")
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, "image/webp", mimeType)

	entries, err := os.ReadDir(tmpdir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalImageStoreDelete(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalImageStore(tmpdir)
	require.NoError(t, err)

	ctx := context.Background()

	// Put
	require.NoError(t, store.Put(ctx, "k", "image/gif", bytes.NewReader([]byte("gif"))))

	// Delete
	require.NoError(t, store.Delete(ctx, "k"))

	// Verify deleted
	_, _, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, imagecache.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "k"), imagecache.ErrNotFound)
}

func TestLocalImageStoreNotFound(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalImageStore(tmpdir)
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, imagecache.ErrNotFound)
}

func TestLocalImageStorePathTraversal(t *testing.T) {
	tmpdir := t.TempDir()
	store, err := NewLocalImageStore(tmpdir)
	require.NoError(t, err)

	ctx := context.Background()

	// Try to traverse directory
	_, _, err = store.Get(ctx, "../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, imagecache.ErrNotFound)
}
