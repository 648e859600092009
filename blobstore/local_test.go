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

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	data := []byte("sequence,label\nATGCGA,promoter\n")
	require.NoError(t, store.Put(ctx, "train/dna.csv", data))

	_, err := os.Stat(filepath.Join(tmpDir, "train", "dna.csv"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, "train/dna.csv")
	require.NoError(t, err)
	defer blob.Close()
	require.Equal(t, int64(len(data)), blob.Size())

	rc, err := blob.ReadRange(ctx, 15, 6)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "ATGCGA", string(got))

	all, err := ReadAll(ctx, store, "train/dna.csv")
	require.NoError(t, err)
	assert.Equal(t, data, all)

	names, err := store.List(ctx, "train/")
	require.NoError(t, err)
	assert.Equal(t, []string{"train/dna.csv"}, names)
}

func TestLocalStore_PutReplaces(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "model.json", []byte("v1")))
	require.NoError(t, store.Put(ctx, "model.json", []byte("v2")))

	got, err := ReadAll(ctx, store, "model.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"model.json"}, names)
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "empty.csv", nil))

	got, err := ReadAll(ctx, store, "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, got)
}
