// Package async provides small generic helpers for running computations in
// their own goroutine and collecting the outcome later.
//
// Go starts fn in a goroutine and returns a *Future immediately. The caller
// waits with Await, bounds the wait with AwaitContext, or polls with
// IsComplete. A panic inside fn is recovered and surfaces as an error wrapping
// ErrPanic, so one misbehaving task cannot take the process down.
//
// AllSettled waits for every future and returns each outcome in input order.
// Unlike a fail-fast join it never stops at the first error: all siblings are
// allowed to finish and every result is reported. This is the wait used by
// the queue scheduler for a batch of extractions.
//
// # Usage
//
//	futures := make([]*async.Future[string], 0, len(paths))
//	for _, p := range paths {
//	    futures = append(futures, async.Go(ctx, p, process))
//	}
//	for i, r := range async.AllSettled(futures...) {
//	    if r.Err != nil {
//	        log.Printf("%s failed: %v", paths[i], r.Err)
//	    }
//	}
//
// Futures are thin wrappers around a goroutine and a channel; bound the number
// started at once yourself when the workload could be large.
package async
