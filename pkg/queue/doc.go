// Package queue provides a bounded, in-memory work queue for bulk metadata
// extraction. Callers submit files, a single scheduler loop drives them
// through an Extractor with a concurrency ceiling, and every item carries its
// own state machine (see pkg/itemstate).
//
// The package is organised around one type, Manager, which composes:
//
//   - admission control: capacity (MaxItems) and an optional daily quota
//     checked and charged once per AddFiles call;
//   - the scheduler: FIFO batches of at most MaxConcurrent items, all
//     extracted concurrently and merged after every item settles;
//   - preview lifecycle: one preview handle per item, acquired on admission
//     and released exactly once when the item leaves the queue;
//   - an observer feed: a Snapshot is published after every mutation.
//
// # Lifecycle of an item
//
//	pending --start--> processing --succeed--> completed
//	                              \--fail----> error --retry--> pending
//
// Failures are never retried automatically. Retry re-queues a single errored
// item; RetryFailed re-queues all of them.
//
// # Usage
//
//	mgr, err := queue.New(imagemeta.New(),
//	    queue.WithMaxItems(10),
//	    queue.WithMaxConcurrent(3),
//	    queue.WithQuota(budget),
//	)
//	if err != nil {
//	    return err
//	}
//	defer mgr.Close(context.Background())
//
//	sub := mgr.Subscribe(ctx)
//	go func() {
//	    for snap := range sub.Messages() {
//	        fmt.Printf("%d%% done\n", snap.Stats.Progress)
//	    }
//	}()
//
//	if _, err := mgr.AddFiles(ctx, payloads); err != nil {
//	    return err
//	}
//	_ = mgr.Wait(ctx)
//
// # Pause and resume
//
// Pause takes effect at batch boundaries: the batch in flight finishes, no new
// batch starts. Resume restarts the loop and drains every pending item,
// including items added while paused.
//
// # Concurrency
//
// All Manager methods are safe for concurrent use. The item list is guarded
// by one mutex; extractor calls and preview I/O happen outside it.
package queue
