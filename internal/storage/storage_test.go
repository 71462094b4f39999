package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csemotors/dealer/config"
	"github.com/csemotors/dealer/internal/storage"
	"github.com/csemotors/dealer/internal/storage/storagetest"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

func TestNewDisabledBackend(t *testing.T) {
	backend, err := storage.New(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, backend)
	assert.False(t, storage.NewImages(backend).Enabled())
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNewMinioRequiresSettings(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Backend: "minio"})
	assert.Error(t, err)
}

func TestImagesUploadAndOpen(t *testing.T) {
	ctx := context.Background()
	images := storage.NewImages(storagetest.NewMemory())
	require.True(t, images.Enabled())

	content := pngHeader + "camaro"
	urlPath, err := images.Upload(ctx, strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(urlPath, "/media/vehicles/"))
	assert.True(t, strings.HasSuffix(urlPath, ".png"))

	key := strings.TrimPrefix(urlPath, storage.MediaPrefix)
	obj, err := images.Open(ctx, key)
	require.NoError(t, err)
	defer obj.Close()
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, images.Remove(ctx, urlPath))
	_, err = images.Open(ctx, key)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestImagesUploadSniffsLargeImages(t *testing.T) {
	content := "\xff\xd8\xff\xe0" + strings.Repeat("j", 2048)
	backend := storagetest.NewMemory()
	images := storage.NewImages(backend)

	urlPath, err := images.Upload(context.Background(), strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(urlPath, ".jpg"))

	obj, err := backend.Get(context.Background(), strings.TrimPrefix(urlPath, storage.MediaPrefix))
	require.NoError(t, err)
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Len(t, body, len(content))
}

func TestImagesRejectsNonImages(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "plain text", content: "just some notes"},
		{name: "html", content: "<html><script>alert(1)</script></html>"},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := storagetest.NewMemory()
			images := storage.NewImages(backend)
			_, err := images.Upload(context.Background(), strings.NewReader(tt.content), int64(len(tt.content)))
			assert.ErrorIs(t, err, storage.ErrNotImage)
			assert.Empty(t, backend.Keys())
		})
	}
}

func TestImagesOpenOutsidePrefix(t *testing.T) {
	images := storage.NewImages(storagetest.NewMemory())
	for _, key := range []string{"secrets.txt", "vehicles/../secrets.txt"} {
		_, err := images.Open(context.Background(), key)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound, key)
	}
}

func TestImagesRemoveIgnoresStaticPaths(t *testing.T) {
	images := storage.NewImages(storagetest.NewMemory())
	assert.NoError(t, images.Remove(context.Background(), "/images/vehicles/no-image.png"))
}
