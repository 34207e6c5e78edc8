package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/field-report-alerts/internal/store"
)

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "alerts/v2", []byte(`{"version":2}`)))

	data, err := fs.Get(ctx, "alerts/v2")
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(data))
}

func TestFileStore_MissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get(context.Background(), "never-written")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFileStore_OverwriteReplaces(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "k", []byte("first")))
	require.NoError(t, fs.Set(ctx, "k", []byte("second")))

	data, err := fs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root)
	require.NoError(t, err)

	require.NoError(t, fs.Set(context.Background(), "k", []byte("v")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}

func TestFileStore_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root)
	require.NoError(t, err)

	require.NoError(t, fs.Set(context.Background(), "../outside", []byte("v")))

	_, err = os.Stat(filepath.Join(filepath.Dir(root), "outside.json"))
	assert.True(t, os.IsNotExist(err), "blob must stay inside the root")
}

func TestFileStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
