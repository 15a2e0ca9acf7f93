package queue_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/metaqueue/pkg/async"
	"github.com/dmitrymomot/metaqueue/pkg/itemstate"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
)

func TestScheduler_BatchesOfMaxConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := newGatedExtractor()
	mgr, _ := newManager(t, g, queue.WithMaxItems(10), queue.WithMaxConcurrent(2), queue.WithAutoStart(false))

	_, err := mgr.AddFiles(ctx, payloads(3))
	require.NoError(t, err)
	assert.Equal(t, queue.Statistics{Total: 3, Pending: 3}, mgr.Stats())

	mgr.Start()
	first := g.waitStarted(t)
	second := g.waitStarted(t)
	assert.ElementsMatch(t, []string{"file-0.jpg", "file-1.jpg"}, []string{first, second}, "FIFO admission")
	g.assertNoStart(t, 50*time.Millisecond)

	stats := mgr.Stats()
	assert.Equal(t, 2, stats.Processing)
	assert.Equal(t, 1, stats.Pending)

	// settle one of the first two: the third still waits for the batch
	g.release <- struct{}{}
	g.assertNoStart(t, 50*time.Millisecond)

	g.release <- struct{}{}
	assert.Equal(t, "file-2.jpg", g.waitStarted(t))
	g.release <- struct{}{}
	wait(t, mgr)

	for _, it := range mgr.Items() {
		assert.Contains(t, []itemstate.Status{itemstate.Completed, itemstate.Error}, it.Status)
	}
	assert.Equal(t, 3, mgr.Stats().Total)
	assert.Equal(t, 2, g.peak())
}

func TestScheduler_FailureDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	files := payloads(3)
	g := newGatedExtractor(files[1].Name())
	g.releaseAll()
	mgr, _ := newManager(t, g, queue.WithMaxConcurrent(3))

	_, err := mgr.AddFiles(ctx, files)
	require.NoError(t, err)
	wait(t, mgr)

	items := mgr.Items()
	require.Len(t, items, 3)

	assert.Equal(t, itemstate.Completed, items[0].Status)
	assert.Equal(t, 100, items[0].Progress)
	assert.Equal(t, queue.Metadata{"name": "file-0.jpg"}, items[0].Result)
	assert.Empty(t, items[0].Error)

	assert.Equal(t, itemstate.Error, items[1].Status)
	assert.Zero(t, items[1].Progress)
	assert.Contains(t, items[1].Error, "corrupt header")
	assert.Nil(t, items[1].Result)

	assert.Equal(t, itemstate.Completed, items[2].Status)
}

func TestScheduler_PanicBecomesItemError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ex := queue.ExtractorFunc(func(_ context.Context, p queue.Payload) (queue.Metadata, error) {
		if p.Name() == "file-0.jpg" {
			panic("decoder exploded")
		}
		return queue.Metadata{}, nil
	})
	mgr, _ := newManager(t, ex)

	_, err := mgr.AddFiles(ctx, payloads(2))
	require.NoError(t, err)
	wait(t, mgr)

	items := mgr.Items()
	assert.Equal(t, itemstate.Error, items[0].Status)
	assert.Contains(t, items[0].Error, async.ErrPanic.Error())
	assert.Contains(t, items[0].Error, "decoder exploded")
	assert.Equal(t, itemstate.Completed, items[1].Status)
}

func TestScheduler_NilResultBecomesEmptyMetadata(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ex := queue.ExtractorFunc(func(context.Context, queue.Payload) (queue.Metadata, error) {
		return nil, nil
	})
	mgr, _ := newManager(t, ex)

	_, err := mgr.AddFiles(ctx, payloads(1))
	require.NoError(t, err)
	wait(t, mgr)

	it := mgr.Items()[0]
	assert.Equal(t, itemstate.Completed, it.Status)
	assert.NotNil(t, it.Result)
}

func TestScheduler_NeverExceedsMaxConcurrent(t *testing.T) {
	t.Parallel()

	const maxConcurrent = 3

	var (
		inFlight atomic.Int32
		peak     atomic.Int32
	)
	ex := queue.ExtractorFunc(func(_ context.Context, p queue.Payload) (queue.Metadata, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return queue.Metadata{"name": p.Name()}, nil
	})

	ctx := context.Background()
	mgr, _ := newManager(t, ex,
		queue.WithConfig(queue.Config{
			MaxItems:         20,
			MaxConcurrent:    maxConcurrent,
			QuotaOperation:   "bulk_extract",
			AutoStart:        true,
			SubscriberBuffer: 512,
		}),
	)

	sub := mgr.Subscribe(ctx)
	var (
		wg        sync.WaitGroup
		violation atomic.Bool
		totalOK   atomic.Bool
	)
	totalOK.Store(true)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for snap := range sub.Messages() {
			if snap.Stats.Processing > maxConcurrent {
				violation.Store(true)
			}
			if snap.Stats.Total != len(snap.Items) {
				totalOK.Store(false)
			}
		}
	}()

	_, err := mgr.AddFiles(ctx, payloads(10))
	require.NoError(t, err)
	_, err = mgr.AddFiles(ctx, payloads(7))
	require.NoError(t, err)
	wait(t, mgr)

	assert.Equal(t, 17, mgr.Stats().Completed)
	assert.LessOrEqual(t, peak.Load(), int32(maxConcurrent))

	require.NoError(t, sub.Close())
	wg.Wait()
	assert.False(t, violation.Load(), "a snapshot showed more than %d processing items", maxConcurrent)
	assert.True(t, totalOK.Load(), "a snapshot had Stats.Total != len(Items)")
}

func TestScheduler_Pause(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("paused queue admits but does not process", func(t *testing.T) {
		t.Parallel()
		g := newGatedExtractor()
		g.releaseAll()
		mgr, _ := newManager(t, g)

		mgr.Pause()
		assert.True(t, mgr.Paused())

		_, err := mgr.AddFiles(ctx, payloads(3))
		require.NoError(t, err)
		g.assertNoStart(t, 50*time.Millisecond)
		assert.False(t, mgr.Running())
		assert.Equal(t, 3, mgr.Stats().Pending)

		mgr.Start()
		g.assertNoStart(t, 20*time.Millisecond)

		mgr.Resume()
		assert.False(t, mgr.Paused())
		wait(t, mgr)
		assert.Equal(t, 3, mgr.Stats().Completed)
	})

	t.Run("takes effect at the batch boundary", func(t *testing.T) {
		t.Parallel()
		g := newGatedExtractor()
		mgr, _ := newManager(t, g, queue.WithMaxConcurrent(1))

		_, err := mgr.AddFiles(ctx, payloads(3))
		require.NoError(t, err)
		g.waitStarted(t)

		mgr.Pause()
		g.release <- struct{}{}
		wait(t, mgr)

		stats := mgr.Stats()
		assert.Equal(t, 1, stats.Completed)
		assert.Equal(t, 2, stats.Pending)
		assert.Zero(t, stats.Processing)
		g.assertNoStart(t, 50*time.Millisecond)

		// items added while paused are drained on resume too
		_, err = mgr.AddFiles(ctx, payloads(1))
		require.NoError(t, err)
		g.assertNoStart(t, 20*time.Millisecond)

		g.releaseAll()
		mgr.Resume()
		wait(t, mgr)
		assert.Equal(t, queue.Statistics{Total: 4, Completed: 4, Progress: 100}, mgr.Stats())
	})

	t.Run("pause and resume are idempotent", func(t *testing.T) {
		t.Parallel()
		mgr, _ := newManager(t, instant)

		mgr.Resume()
		assert.False(t, mgr.Paused())

		seq := mgr.Snapshot().Seq
		mgr.Pause()
		mgr.Pause()
		assert.Equal(t, seq+1, mgr.Snapshot().Seq)
		mgr.Resume()
		mgr.Resume()
		assert.Equal(t, seq+2, mgr.Snapshot().Seq)
	})
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := newGatedExtractor()
	mgr, _ := newManager(t, g, queue.WithMaxConcurrent(1), queue.WithAutoStart(false))

	_, err := mgr.AddFiles(ctx, payloads(2))
	require.NoError(t, err)
	assert.False(t, mgr.Running())

	for range 5 {
		mgr.Start()
	}
	g.waitStarted(t)
	g.assertNoStart(t, 30*time.Millisecond)
	assert.True(t, mgr.Running())
	assert.Equal(t, 1, mgr.Stats().Processing)

	g.releaseAll()
	wait(t, mgr)
	assert.False(t, mgr.Running())
	assert.Equal(t, 2, mgr.Stats().Completed)
}

func TestScheduler_WaitBoundedByContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := newGatedExtractor()
	defer g.releaseAll()
	mgr, _ := newManager(t, g)

	_, err := mgr.AddFiles(ctx, payloads(1))
	require.NoError(t, err)
	g.waitStarted(t)

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, mgr.Wait(cctx), context.DeadlineExceeded)
}

func TestScheduler_ConcurrentMutations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ex := queue.ExtractorFunc(func(_ context.Context, p queue.Payload) (queue.Metadata, error) {
		time.Sleep(time.Millisecond)
		return queue.Metadata{"name": p.Name()}, nil
	})
	mgr, previews := newManager(t, ex, queue.WithMaxItems(1000), queue.WithMaxConcurrent(4))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_, _ = mgr.AddFiles(ctx, payloads(3))
				items := mgr.Items()
				if len(items) > 0 {
					_ = mgr.RemoveFile(ctx, items[0].ID)
				}
				mgr.ClearCompleted(ctx)
				_ = mgr.Stats()
			}
		}()
	}
	wg.Wait()
	wait(t, mgr)

	stats := mgr.Stats()
	assert.Equal(t, len(mgr.Items()), stats.Total)
	assert.Zero(t, stats.Pending)
	assert.Zero(t, stats.Processing)

	mgr.ClearAll(ctx)
	acquired, released := previews.Counters()
	assert.Equal(t, acquired, released)
	assert.Zero(t, previews.Live())
}
