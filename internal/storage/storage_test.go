package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jao1224/crmimobiliaria-sub000/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageInterfaceCompliance(t *testing.T) {
	var _ storage.Storage = (*storage.LocalStorage)(nil)
	var _ storage.Storage = (*storage.AzureBlobStorage)(nil)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "uploads")

	ls, err := storage.NewLocalStorage(basePath)
	require.NoError(t, err)
	assert.NotNil(t, ls)

	info, err := os.Stat(basePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_UploadDownloadRoundtrip(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	content := []byte("minuta do contrato de compra e venda")
	storagePath, size, err := ls.Upload(context.Background(), "contrato.pdf", "application/pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.Equal(t, ".pdf", filepath.Ext(storagePath))

	reader, err := ls.Download(context.Background(), storagePath)
	require.NoError(t, err)
	defer reader.Close()

	downloaded, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, downloaded)
}

func TestLocalStorage_Download_FileNotFound(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	reader, err := ls.Download(context.Background(), "nonexistent/file.txt")
	assert.Error(t, err)
	assert.Nil(t, reader)
	assert.Contains(t, err.Error(), "file not found")
}

func TestLocalStorage_Delete_Idempotent(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	storagePath, _, err := ls.Upload(context.Background(), "delete-me.txt", "text/plain", bytes.NewReader([]byte("bye")))
	require.NoError(t, err)

	require.NoError(t, ls.Delete(context.Background(), storagePath))
	assert.NoError(t, ls.Delete(context.Background(), storagePath))
}

func TestLocalStorage_UniqueStoragePaths(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		storagePath, _, err := ls.Upload(context.Background(), "same-name.txt", "text/plain", bytes.NewReader([]byte("same content")))
		require.NoError(t, err)
		assert.False(t, paths[storagePath], "storage path should be unique: %s", storagePath)
		paths[storagePath] = true
	}
	assert.Len(t, paths, 5)
}
