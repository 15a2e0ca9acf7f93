package preview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists preview objects.
type Storage interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// StorageBackend stores a copy of each source in a Storage.
type StorageBackend struct {
	storage Storage
	prefix  string
}

// StorageBackendOption configures a StorageBackend.
type StorageBackendOption func(*StorageBackend)

// WithPathPrefix sets the directory objects are stored under.
func WithPathPrefix(prefix string) StorageBackendOption {
	return func(b *StorageBackend) {
		b.prefix = strings.Trim(prefix, "/")
	}
}

// NewStorageBackend wraps storage.
func NewStorageBackend(storage Storage, opts ...StorageBackendOption) *StorageBackend {
	b := &StorageBackend{storage: storage, prefix: "previews"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create copies src to "<prefix>/<uuid><ext>".
func (b *StorageBackend) Create(ctx context.Context, key string, src Source) (Handle, error) {
	if src == nil {
		return Handle{}, ErrNilSource
	}

	rc, err := src.Open()
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = rc.Close() }()

	// DetectContentType only looks at the first 512 bytes.
	br := bufio.NewReaderSize(rc, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return Handle{}, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	contentType := http.DetectContentType(head)

	id := uuid.NewString()
	p := path.Join(b.prefix, id+extension(src.Name()))
	if err := b.storage.Put(ctx, p, br, src.Size(), contentType); err != nil {
		return Handle{}, err
	}

	return Handle{Key: key, ID: id, URL: b.storage.URL(p), Path: p}, nil
}

// Destroy deletes the stored copy.
func (b *StorageBackend) Destroy(ctx context.Context, h Handle) error {
	if h.Path == "" {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h.ID)
	}
	return b.storage.Delete(ctx, h.Path)
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
