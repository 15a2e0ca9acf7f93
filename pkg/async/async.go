package async

import (
	"context"
	"fmt"
	"time"
)

// Future holds the eventual outcome of a computation started with Go.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Result is the settled outcome of a single future.
type Result[U any] struct {
	Value U
	Err   error
}

// Go runs fn(ctx, param) in a new goroutine and returns its Future.
// If ctx is already done, fn is not called and the future settles with ctx.Err().
func Go[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = run(ctx, param, fn)
	}()

	return f
}

func run[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) (res U, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero U
			res = zero
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx, param)
}

// Await blocks until the computation finishes.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the computation finishes or ctx is done.
// The computation itself keeps running when ctx wins.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout is AwaitContext with a relative deadline that reports ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done is closed once the computation has finished.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// AllSettled waits for every future and returns their outcomes in input order.
func AllSettled[U any](futures ...*Future[U]) []Result[U] {
	results := make([]Result[U], len(futures))
	for i, f := range futures {
		results[i].Value, results[i].Err = f.Await()
	}
	return results
}
