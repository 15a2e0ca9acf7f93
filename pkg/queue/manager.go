package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/metaqueue/pkg/broadcast"
	"github.com/dmitrymomot/metaqueue/pkg/itemstate"
	"github.com/dmitrymomot/metaqueue/pkg/logger"
	"github.com/dmitrymomot/metaqueue/pkg/preview"
)

// Manager owns the item list and the scheduler loop.
type Manager struct {
	extractor Extractor
	quota     QuotaLimiter
	previews  *preview.Manager
	config    Config
	logger    *slog.Logger
	now       func() time.Time
	hub       *broadcast.Hub[Snapshot]

	// admit serializes AddFiles so capacity, quota, preview acquisition and
	// insertion happen as one step relative to each other.
	admit sync.Mutex

	mu      sync.Mutex
	items   []*Item
	index   map[uuid.UUID]*Item
	seq     uint64
	paused  bool
	running bool
	closed  bool
	idle    chan struct{} // closed when the current loop exits
}

// New creates a Manager that extracts with extractor.
func New(extractor Extractor, opts ...Option) (*Manager, error) {
	if extractor == nil {
		return nil, ErrExtractorNil
	}

	options := &options{
		config: DefaultConfig(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.config.validate(); err != nil {
		return nil, err
	}
	if options.previews == nil {
		options.previews = preview.NewManager(preview.NewMemoryBackend(), preview.WithLogger(options.logger))
	}

	return &Manager{
		extractor: extractor,
		quota:     options.quota,
		previews:  options.previews,
		config:    options.config,
		logger:    options.logger.With(logger.Component("queue")),
		now:       options.now,
		hub:       broadcast.NewHub[Snapshot](broadcast.WithBufferSize(options.config.SubscriberBuffer)),
		index:     make(map[uuid.UUID]*Item),
	}, nil
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// AddFiles admits files as pending items. It is all or nothing: on error the
// queue is unchanged. One quota unit is charged per successful call.
func (m *Manager) AddFiles(ctx context.Context, files []Payload) (int, error) {
	if m.isClosed() {
		return 0, ErrClosed
	}
	if len(files) == 0 {
		return 0, nil
	}
	if slices.Contains(files, nil) {
		return 0, ErrPayloadNil
	}

	m.admit.Lock()
	defer m.admit.Unlock()

	m.mu.Lock()
	current, closed := len(m.items), m.closed
	m.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	if current+len(files) > m.config.MaxItems {
		return 0, fmt.Errorf("%w: %d queued + %d requested > %d",
			ErrCapacityExceeded, current, len(files), m.config.MaxItems)
	}

	if err := m.checkQuota(ctx); err != nil {
		return 0, err
	}

	now := m.now()
	batch := make([]*Item, 0, len(files))
	for _, p := range files {
		id := uuid.New()
		h, err := m.previews.Acquire(ctx, id.String(), p)
		if err != nil {
			m.releaseAll(ctx, batch)
			return 0, errors.Join(ErrPreviewAcquire, err)
		}
		batch = append(batch, newItem(p, h, id, now))
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.releaseAll(ctx, batch)
		return 0, ErrClosed
	}
	m.items = append(m.items, batch...)
	for _, it := range batch {
		m.index[it.ID] = it
	}
	m.publishLocked(EventAdded, uuid.Nil)
	start := m.config.AutoStart && !m.paused
	m.mu.Unlock()

	if m.quota != nil {
		if err := m.quota.RecordUsage(ctx, m.config.QuotaOperation); err != nil {
			m.logger.WarnContext(ctx, "failed to record quota usage",
				logger.Operation(m.config.QuotaOperation),
				logger.Error(err),
			)
		}
	}

	m.logger.InfoContext(ctx, "files admitted", logger.Count(len(batch)))

	if start {
		m.Start()
	}
	return len(batch), nil
}

func (m *Manager) checkQuota(ctx context.Context) error {
	if m.quota == nil {
		return nil
	}
	ok, err := m.quota.CheckLimit(ctx, m.config.QuotaOperation)
	if err != nil {
		return errors.Join(ErrQuotaCheck, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, m.config.QuotaOperation)
	}
	return nil
}

// RemoveFile removes the item in any status and releases its preview.
// Unknown ids are a no-op. A result still in flight for the item is dropped.
func (m *Manager) RemoveFile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	it, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.index, id)
	m.items = slices.DeleteFunc(m.items, func(x *Item) bool { return x == it })
	m.publishLocked(EventRemoved, id)
	m.mu.Unlock()

	return m.release(ctx, it)
}

// Retry re-queues an errored item with its progress reset.
func (m *Manager) Retry(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	it, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err := it.retry(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	m.publishLocked(EventRetried, id)
	start := m.config.AutoStart && !m.paused
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "item retried", logger.ItemID(id))

	if start {
		m.Start()
	}
	return nil
}

// RetryFailed re-queues every errored item and returns how many were.
func (m *Manager) RetryFailed(ctx context.Context) int {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0
	}
	n := 0
	for _, it := range m.items {
		if it.Status == itemstate.Error && it.retry() == nil {
			n++
		}
	}
	if n == 0 {
		m.mu.Unlock()
		return 0
	}
	m.publishLocked(EventRetried, uuid.Nil)
	start := m.config.AutoStart && !m.paused
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "failed items retried", logger.Count(n))

	if start {
		m.Start()
	}
	return n
}

// ClearCompleted removes every completed item and returns how many were.
func (m *Manager) ClearCompleted(ctx context.Context) int {
	m.mu.Lock()
	var removed []*Item
	m.items = slices.DeleteFunc(m.items, func(it *Item) bool {
		if it.Status != itemstate.Completed {
			return false
		}
		removed = append(removed, it)
		delete(m.index, it.ID)
		return true
	})
	if len(removed) == 0 {
		m.mu.Unlock()
		return 0
	}
	m.publishLocked(EventCleared, uuid.Nil)
	m.mu.Unlock()

	m.releaseAll(ctx, removed)
	return len(removed)
}

// ClearAll removes every item. Nothing is left to schedule, and results of
// extractions still in flight are dropped.
func (m *Manager) ClearAll(ctx context.Context) int {
	m.mu.Lock()
	removed := m.items
	m.items = nil
	clear(m.index)
	if len(removed) > 0 {
		m.publishLocked(EventCleared, uuid.Nil)
	}
	m.mu.Unlock()

	m.releaseAll(ctx, removed)
	return len(removed)
}

// Pause stops the scheduler at the next batch boundary.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paused || m.closed {
		return
	}
	m.paused = true
	m.publishLocked(EventPaused, uuid.Nil)
}

// Resume clears the pause flag and drains every pending item.
func (m *Manager) Resume() {
	m.mu.Lock()
	if !m.paused || m.closed {
		m.mu.Unlock()
		return
	}
	m.paused = false
	m.publishLocked(EventResumed, uuid.Nil)
	m.mu.Unlock()

	m.Start()
}

// Paused reports whether the scheduler is paused.
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Running reports whether the scheduler loop is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Stats returns the current statistics.
func (m *Manager) Stats() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return computeStats(m.items)
}

// Items returns copies of all items in submission order.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyItemsLocked()
}

// Item returns a copy of the item with id.
func (m *Manager) Item(id uuid.UUID) (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.index[id]
	if !ok {
		return Item{}, false
	}
	return it.clone(), true
}

// Snapshot returns the current state without waiting for a mutation.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Seq:   m.seq,
		Items: m.copyItemsLocked(),
		Stats: computeStats(m.items),
		At:    m.now(),
	}
}

// Subscribe returns a feed of snapshots, one per mutation. A slow subscriber
// only loses intermediate snapshots; the newest is always kept. The
// subscription ends when ctx is done, on Close, or when the manager closes.
func (m *Manager) Subscribe(ctx context.Context) *broadcast.Subscription[Snapshot] {
	return m.hub.Subscribe(ctx)
}

// Close stops the scheduler, waits for the batch in flight (bounded by ctx),
// releases every remaining preview and ends all subscriptions.
// Close is idempotent.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.paused = true
	m.publishLocked(EventClosed, uuid.Nil)
	m.mu.Unlock()

	waitErr := m.Wait(ctx)

	m.mu.Lock()
	remaining := m.items
	m.items = nil
	clear(m.index)
	m.mu.Unlock()

	m.releaseAll(ctx, remaining)
	_ = m.hub.Close()

	m.logger.InfoContext(ctx, "queue closed", logger.Count(len(remaining)))
	return waitErr
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Manager) copyItemsLocked() []Item {
	out := make([]Item, len(m.items))
	for i, it := range m.items {
		out[i] = it.clone()
	}
	return out
}

// publishLocked emits a snapshot. m.mu must be held so that Seq order matches
// mutation order. Hub.Publish never blocks.
func (m *Manager) publishLocked(event EventType, id uuid.UUID) {
	m.seq++
	if m.hub.Subscribers() == 0 {
		return
	}
	_ = m.hub.Publish(Snapshot{
		Seq:    m.seq,
		Event:  event,
		ItemID: id,
		Items:  m.copyItemsLocked(),
		Stats:  computeStats(m.items),
		At:     m.now(),
	})
}

func (m *Manager) release(ctx context.Context, it *Item) error {
	if err := m.previews.Release(ctx, it.ID.String()); err != nil {
		m.logger.ErrorContext(ctx, "failed to release preview",
			logger.ItemID(it.ID),
			logger.Error(err),
		)
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}

func (m *Manager) releaseAll(ctx context.Context, items []*Item) {
	for _, it := range items {
		_ = m.release(ctx, it)
	}
}
