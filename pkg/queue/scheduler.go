package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/metaqueue/pkg/async"
	"github.com/dmitrymomot/metaqueue/pkg/itemstate"
	"github.com/dmitrymomot/metaqueue/pkg/logger"
)

// job is what the loop needs from an item outside the lock.
type job struct {
	item    *Item
	id      uuid.UUID
	payload Payload
}

// Start launches the scheduler loop. It returns immediately if the loop is
// already running, the queue is paused or closed.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running || m.paused || m.closed {
		return
	}
	m.running = true
	m.idle = make(chan struct{})
	go m.loop(m.idle)
}

// Wait blocks until the scheduler loop is not running or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	for {
		m.mu.Lock()
		if !m.running {
			m.mu.Unlock()
			return nil
		}
		idle := m.idle
		m.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Manager) loop(idle chan struct{}) {
	for {
		batch := m.nextBatch(idle)
		if batch == nil {
			return
		}
		started := time.Now()
		results := m.extract(batch)
		m.merge(batch, results, time.Since(started))
	}
}

// nextBatch moves up to MaxConcurrent pending items to processing in FIFO
// order. When there is nothing to do it marks the loop stopped in the same
// critical section, so a concurrent admission always sees running == false
// and starts a fresh loop.
func (m *Manager) nextBatch(idle chan struct{}) []job {
	m.mu.Lock()
	defer m.mu.Unlock()

	var batch []job
	if !m.paused && !m.closed {
		now := m.now()
		for _, it := range m.items {
			if len(batch) == m.config.MaxConcurrent {
				break
			}
			if it.Status != itemstate.Pending {
				continue
			}
			if err := it.start(now); err != nil {
				m.logger.Error("failed to start item", logger.ItemID(it.ID), logger.Error(err))
				continue
			}
			batch = append(batch, job{item: it, id: it.ID, payload: it.Payload})
		}
	}

	if len(batch) == 0 {
		m.running = false
		close(idle)
		return nil
	}

	m.publishLocked(EventBatchStarted, uuid.Nil)
	m.logger.Debug("batch started", logger.BatchSize(len(batch)))
	return batch
}

// extract runs the extractor for every job concurrently and waits for all of
// them. A failure or panic in one job never aborts its siblings.
func (m *Manager) extract(batch []job) []async.Result[Metadata] {
	futures := make([]*async.Future[Metadata], len(batch))
	for i, j := range batch {
		ctx := logger.WithItemID(context.Background(), j.id)
		futures[i] = async.Go(ctx, j.payload, m.extractor.Extract)
	}
	return async.AllSettled(futures...)
}

// merge records results. Items removed while in flight are skipped.
func (m *Manager) merge(batch []job, results []async.Result[Metadata], elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	failed := 0
	for i, j := range batch {
		if m.index[j.id] != j.item {
			continue
		}
		res := results[i]

		var err error
		if res.Err != nil {
			failed++
			err = j.item.fail(res.Err, now)
			m.logger.Warn("extraction failed", logger.ItemID(j.id), logger.Error(res.Err))
		} else {
			err = j.item.complete(res.Value, now)
		}
		if err != nil {
			m.logger.Error("failed to settle item", logger.ItemID(j.id), logger.Error(err))
		}
	}

	m.publishLocked(EventBatchSettled, uuid.Nil)
	m.logger.Debug("batch settled",
		logger.BatchSize(len(batch)),
		slog.Int("failed", failed),
		logger.Duration(elapsed),
	)
}
