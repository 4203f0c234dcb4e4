package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:3000/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	resp, err := store.Upload(ctx, &UploadRequest{
		Key:         "icons/engine.png",
		Reader:      strings.NewReader("png-bytes"),
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/icons/engine.png", resp.URL)
	assert.Equal(t, int64(9), resp.Size)

	exists, err := store.FileExists(ctx, "icons/engine.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "icons/engine.png"))
	require.NoError(t, store.Delete(ctx, "icons/engine.png"))

	exists, err = store.FileExists(ctx, "icons/engine.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_KeyStaysInsideBase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "base"), "http://x")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), &UploadRequest{
		Key:    "../../escape.txt",
		Reader: strings.NewReader("x"),
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "base", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "ftp"})
	assert.Error(t, err)
}
