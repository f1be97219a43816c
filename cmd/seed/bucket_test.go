package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveObjectKey(t *testing.T) {
	assert.Equal(t, "imports/2025-11.csv", resolveObjectKey("imports", "2025-11.csv"))
	assert.Equal(t, "imports/2025-11.csv", resolveObjectKey("imports/", "/imports/2025-11.csv"))
	assert.Equal(t, "2025-11.csv", resolveObjectKey("", "/2025-11.csv"))
}

func TestObjectRelativePath(t *testing.T) {
	assert.Equal(t, "nov/a.csv", objectRelativePath("imports", "imports/nov/a.csv"))
	assert.Equal(t, "a.csv", objectRelativePath("imports", "other/a.csv"))
	assert.Equal(t, "other/a.csv", objectRelativePath("", "other/a.csv"))
}

func TestDownloadLedgersFiltersAndStages(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.UploadObject(ctx, "imports/b.xlsx", []byte("xlsx"), ""))
	require.NoError(t, store.UploadObject(ctx, "imports/a.csv", []byte("date\n"), ""))
	require.NoError(t, store.UploadObject(ctx, "imports/readme.txt", []byte("skip"), ""))

	dir := t.TempDir()
	paths, err := downloadLedgers(ctx, store, "imports", "", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.xlsx")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "date\n", string(data))

	_, err = downloadLedgers(ctx, store, "empty", "", dir)
	assert.Error(t, err)
}

func TestReadLedgerRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := readLedger(path)
	assert.Error(t, err)
}
