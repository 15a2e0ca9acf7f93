package preview

import (
	"context"
	"io"
)

// Source is the content a preview is created from.
type Source interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// Handle references a live preview.
type Handle struct {
	Key  string `json:"key"`
	ID   string `json:"id"`
	URL  string `json:"url"`
	Path string `json:"path,omitempty"` // storage path, empty for memory handles
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// Backend creates and destroys the resource behind a handle.
type Backend interface {
	Create(ctx context.Context, key string, src Source) (Handle, error)
	Destroy(ctx context.Context, h Handle) error
}
