package preview

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryBackend hands out opaque references that hold no resources beyond a
// bookkeeping entry.
type MemoryBackend struct {
	mu   sync.Mutex
	live map[string]struct{}
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{live: make(map[string]struct{})}
}

// Create allocates a "preview://<uuid>" reference.
func (b *MemoryBackend) Create(ctx context.Context, key string, _ Source) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	id := uuid.NewString()

	b.mu.Lock()
	b.live[id] = struct{}{}
	b.mu.Unlock()

	return Handle{Key: key, ID: id, URL: "preview://" + id}, nil
}

// Destroy revokes a reference created by Create.
func (b *MemoryBackend) Destroy(_ context.Context, h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.live[h.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h.ID)
	}
	delete(b.live, h.ID)
	return nil
}

// Len returns the number of live references.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}
