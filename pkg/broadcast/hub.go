package broadcast

import (
	"context"
	"sync"
)

// Hub fans messages of type T out to every active subscription.
// All methods are safe for concurrent use.
type Hub[T any] struct {
	mu         sync.RWMutex
	subs       map[*Subscription[T]]struct{}
	bufferSize int
	closed     bool
	watchers   sync.WaitGroup
}

// Option configures a Hub.
type Option func(*options)

type options struct {
	bufferSize int
}

// WithBufferSize sets the per-subscriber buffer. Values below 1 are ignored.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// NewHub creates an empty hub. The default buffer holds a single message.
func NewHub[T any](opts ...Option) *Hub[T] {
	o := &options{bufferSize: 1}
	for _, opt := range opts {
		opt(o)
	}
	return &Hub[T]{
		subs:       make(map[*Subscription[T]]struct{}),
		bufferSize: o.bufferSize,
	}
}

// Subscribe registers a new subscription that lives until ctx is done or it
// is closed explicitly.
func (h *Hub[T]) Subscribe(ctx context.Context) *Subscription[T] {
	sub := newSubscription[T](h, h.bufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.close()
		return sub
	}
	h.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		h.watchers.Add(1)
		go func() {
			defer h.watchers.Done()
			select {
			case <-ctx.Done():
				h.remove(sub)
			case <-sub.closed:
			}
		}()
	}

	return sub
}

// Publish delivers msg to every subscription without blocking.
func (h *Hub[T]) Publish(msg T) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}
	for sub := range h.subs {
		sub.offer(msg)
	}
	return nil
}

// Subscribers returns the number of active subscriptions.
func (h *Hub[T]) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscription and rejects further publishing.
// It is safe to call Close multiple times.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for sub := range h.subs {
		sub.close()
	}
	clear(h.subs)
	h.mu.Unlock()

	h.watchers.Wait()
	return nil
}

func (h *Hub[T]) remove(sub *Subscription[T]) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close()
}
