package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dmitrymomot/metaqueue/pkg/logger"
)

type entry struct {
	handle Handle
	ready  bool // false while the backend is still creating the handle
}

// Manager tracks live handles and enforces acquire-once, release-once.
type Manager struct {
	backend Backend
	strict  bool
	log     *slog.Logger

	mu       sync.Mutex
	live     map[string]*entry
	acquired uint64
	released uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStrict makes lifecycle violations panic.
func WithStrict() ManagerOption {
	return func(m *Manager) {
		m.strict = true
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager creates a Manager over backend. A nil backend means
// NewMemoryBackend().
func NewManager(backend Backend, opts ...ManagerOption) *Manager {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	m := &Manager{
		backend: backend,
		log:     slog.Default(),
		live:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire creates the handle for key.
func (m *Manager) Acquire(ctx context.Context, key string, src Source) (Handle, error) {
	if key == "" {
		return Handle{}, ErrEmptyKey
	}
	if src == nil {
		return Handle{}, ErrNilSource
	}

	m.mu.Lock()
	if _, ok := m.live[key]; ok {
		m.mu.Unlock()
		return Handle{}, m.violation(fmt.Errorf("%w: %s", ErrDoubleAcquire, key))
	}
	m.live[key] = &entry{}
	m.mu.Unlock()

	h, err := m.backend.Create(ctx, key, src)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		delete(m.live, key)
		return Handle{}, err
	}
	m.live[key] = &entry{handle: h, ready: true}
	m.acquired++
	return h, nil
}

// Release destroys the handle for key. The key is forgotten even when the
// backend fails, so a failed release is not retried.
func (m *Manager) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	e, ok := m.live[key]
	if !ok || !e.ready {
		m.mu.Unlock()
		return m.violation(fmt.Errorf("%w: %s", ErrDoubleRelease, key))
	}
	delete(m.live, key)
	m.released++
	m.mu.Unlock()

	if err := m.backend.Destroy(ctx, e.handle); err != nil {
		m.log.WarnContext(ctx, "preview destroy failed",
			logger.Component("preview"),
			slog.String("key", key),
			logger.Error(err),
		)
		return err
	}
	return nil
}

// ReleaseAll releases every live handle and returns how many were released.
func (m *Manager) ReleaseAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	keys := make([]string, 0, len(m.live))
	for k, e := range m.live {
		if e.ready {
			keys = append(keys, k)
		}
	}
	m.mu.Unlock()
	sort.Strings(keys)

	var errs []error
	n := 0
	for _, k := range keys {
		err := m.Release(ctx, k)
		if errors.Is(err, ErrDoubleRelease) {
			// released concurrently
			continue
		}
		n++
		if err != nil {
			errs = append(errs, err)
		}
	}
	return n, errors.Join(errs...)
}

// Handle returns the live handle for key.
func (m *Manager) Handle(key string) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live[key]
	if !ok || !e.ready {
		return Handle{}, false
	}
	return e.handle, true
}

// Live returns the number of handles acquired and not yet released.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.live {
		if e.ready {
			n++
		}
	}
	return n
}

// Counters returns the total number of acquires and releases.
func (m *Manager) Counters() (acquired, released uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired, m.released
}

func (m *Manager) violation(err error) error {
	if m.strict {
		panic(err)
	}
	m.log.Error("preview lifecycle violation", logger.Component("preview"), logger.Error(err))
	return err
}
