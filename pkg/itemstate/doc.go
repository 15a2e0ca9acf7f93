// Package itemstate defines the lifecycle of a single queued file: the set of
// statuses an item can be in and the events that move it between them.
//
// The transition table is fixed:
//
//	pending    --start-->   processing
//	processing --succeed--> completed
//	processing --fail-->    error
//	error      --retry-->   pending
//
// completed is terminal; error is recoverable only through retry. Every other
// status/event combination is rejected with an *InvalidTransitionError, which
// matches ErrInvalidTransition via errors.Is, so callers can detect
// programming errors in retry logic instead of having them silently ignored.
//
// # Usage
//
//	next, err := itemstate.Fire(itemstate.Pending, itemstate.Start)
//	if err != nil {
//	    // itemstate.IsInvalidTransitionError(err) == true
//	}
//	_ = next // itemstate.Processing
//
// The package holds no state of its own and is safe for concurrent use; the
// owner of an item is responsible for serializing writes to its status.
package itemstate
