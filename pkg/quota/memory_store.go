package quota

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	value     int64
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	counters map[string]*counter

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired counters are dropped.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// NewMemoryStore creates an in-memory store with optional cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		counters:        make(map[string]*counter),
		cleanupInterval: 10 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

// Count returns the current value of key.
func (ms *MemoryStore) Count(_ context.Context, key string) (int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	c, ok := ms.counters[key]
	if !ok || !time.Now().Before(c.expiresAt) {
		return 0, nil
	}
	return c.value, nil
}

// Increment adds one to key, creating it with ttl if absent or expired.
func (ms *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	c, ok := ms.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counter{expiresAt: now.Add(ttl)}
		ms.counters[key] = c
	}
	c.value++
	return c.value, nil
}

// Reset deletes key.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.counters, key)
	return nil
}

// Len returns the number of stored counters, expired ones included until the
// next cleanup.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.counters)
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeExpired()
		case <-ms.stopCleanup:
			return
		}
	}
}

func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for key, c := range ms.counters {
		if !now.Before(c.expiresAt) {
			delete(ms.counters, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() {
		close(ms.stopCleanup)
	})
}
