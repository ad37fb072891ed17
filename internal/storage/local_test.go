package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/backend-go/internal/config"
)

func TestLocalStore_SaveListDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Save(ctx, "1700000000000-kitchen.jpg", strings.NewReader("kitchen"), 7, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-kitchen.jpg", url)

	content, err := os.ReadFile(filepath.Join(dir, "1700000000000-kitchen.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "kitchen", string(content))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	objects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "1700000000000-kitchen.jpg", objects[0].Key)
	assert.Equal(t, int64(7), objects[0].Size)
	assert.False(t, objects[0].LastModified.IsZero())

	require.NoError(t, store.Delete(ctx, "1700000000000-kitchen.jpg"))
	// Deleting twice is not an error
	require.NoError(t, store.Delete(ctx, "1700000000000-kitchen.jpg"))

	objects, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalStore_RejectsUnsafeNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.jpg", `..\escape.jpg`, "a/b.jpg"} {
		_, err := store.Save(ctx, name, strings.NewReader("x"), 1, "")
		assert.Error(t, err, name)
		assert.Error(t, store.Delete(ctx, name), name)
	}
}

func TestLocalStore_SaveCancelled(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "a.jpg", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_KeyFromURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	tests := []struct {
		url     string
		wantKey string
		wantOK  bool
	}{
		{"/uploads/1-a.jpg", "1-a.jpg", true},
		{store.URLFor("2-b.png"), "2-b.png", true},
		{"/uploads/", "", false},
		{"/uploads/nested/a.jpg", "", false},
		{"/uploads/..", "", false},
		{"https://cdn.example.com/a.jpg", "", false},
		{"/static/a.jpg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			key, ok := store.KeyFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		StorageDriver:    DriverLocal,
		UploadDir:        t.TempDir(),
		UploadPublicPath: "/uploads",
	}
	logger := discardLogger()

	store, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	cfg.StorageDriver = "ftp"
	_, err = New(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")

	cfg.StorageDriver = DriverS3
	_, err = New(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "bucket is required")
}
