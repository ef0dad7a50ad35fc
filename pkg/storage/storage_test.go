package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/pkg/storage"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocal(t.TempDir(), "http://localhost:3000/storage/")

	_, err := disk.Get(ctx, "backups/missing.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, disk.Put(ctx, "backups/b.json", []byte(`{"b":1}`)))
	require.NoError(t, disk.Put(ctx, "backups/a.json", []byte(`{"a":1}`)))
	assert.True(t, disk.Exists(ctx, "backups/a.json"))

	data, err := disk.Get(ctx, "backups/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	files, err := disk.Files(ctx, "backups")
	require.NoError(t, err)
	assert.Equal(t, []string{"backups/a.json", "backups/b.json"}, files)

	require.NoError(t, disk.Delete(ctx, "backups/a.json"))
	require.NoError(t, disk.Delete(ctx, "backups/a.json"))
	assert.False(t, disk.Exists(ctx, "backups/a.json"))

	assert.Equal(t, "http://localhost:3000/storage/backups/b.json", disk.URL("backups/b.json"))
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk := storage.NewLocal(root, "")

	require.NoError(t, disk.Put(ctx, "../escape.txt", []byte("x")))
	assert.True(t, disk.Exists(ctx, "escape.txt"))
}

func TestManagerLookup(t *testing.T) {
	storage.RegisterDisk("test", storage.NewLocal(t.TempDir(), ""))

	d, err := storage.Lookup("test")
	require.NoError(t, err)
	assert.NotNil(t, d)

	_, err = storage.Lookup("nope")
	assert.Error(t, err)
}
