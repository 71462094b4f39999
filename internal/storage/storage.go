package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/csemotors/dealer/config"
)

// MediaPrefix is the URL path under which uploaded objects are served.
const MediaPrefix = "/media/"

const (
	imagePrefix  = "vehicles/"
	cacheControl = "public, max-age=86400"
	sniffLen     = 512
)

// imageExtensions maps the sniffed content types that are accepted as
// vehicle images to the extension used in their keys.
var imageExtensions = map[string]string{
	"image/bmp":  ".bmp",
	"image/gif":  ".gif",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrNotImage       = errors.New("uploaded file is not an image")
)

// Object is an open object together with its metadata.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// New builds the backend named by cfg.Backend. An empty backend disables
// uploads and returns a nil storage.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Images stores uploaded vehicle images in an object storage backend.
type Images struct {
	backend ObjectStorage
}

// NewImages returns nil when backend is nil, which callers treat as
// uploads being disabled.
func NewImages(backend ObjectStorage) *Images {
	if backend == nil {
		return nil
	}
	return &Images{backend: backend}
}

// Enabled reports whether uploads can be stored.
func (i *Images) Enabled() bool {
	return i != nil && i.backend != nil
}

// Upload stores an image under a random key and returns the URL path it is
// served from. The content type is sniffed from the data; whatever the
// client claimed is ignored.
func (i *Images) Upload(ctx context.Context, r io.Reader, size int64) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrNotImage
	}

	key := imagePrefix + uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := i.backend.Put(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return MediaPrefix + key, nil
}

// Open returns the object stored under key.
func (i *Images) Open(ctx context.Context, key string) (*Object, error) {
	if !strings.HasPrefix(key, imagePrefix) || strings.Contains(key, "..") {
		return nil, ErrObjectNotFound
	}
	return i.backend.Get(ctx, key)
}

// Remove deletes an uploaded image by its URL path. Paths outside the
// media prefix are ignored.
func (i *Images) Remove(ctx context.Context, urlPath string) error {
	key, ok := strings.CutPrefix(urlPath, MediaPrefix)
	if !ok {
		return nil
	}
	return i.backend.Delete(ctx, key)
}
