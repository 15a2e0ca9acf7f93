package broadcast

import "sync"

// Subscription receives messages published on a Hub.
type Subscription[T any] struct {
	hub     *Hub[T]
	ch      chan T
	mu      sync.Mutex
	done    bool
	closed  chan struct{}
	dropped uint64
}

func newSubscription[T any](hub *Hub[T], bufferSize int) *Subscription[T] {
	return &Subscription[T]{
		hub:    hub,
		ch:     make(chan T, bufferSize),
		closed: make(chan struct{}),
	}
}

// Messages returns the receive channel. It is closed when the subscription ends.
func (s *Subscription[T]) Messages() <-chan T {
	return s.ch
}

// Dropped returns how many messages were discarded because the buffer was full.
func (s *Subscription[T]) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close unsubscribes from the hub. Idempotent.
func (s *Subscription[T]) Close() error {
	s.hub.remove(s)
	return nil
}

// offer enqueues msg, evicting the oldest buffered message when full.
func (s *Subscription[T]) offer(msg T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case <-s.ch:
			s.dropped++
		default:
		}
	}
}

func (s *Subscription[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	s.done = true
	close(s.ch)
	close(s.closed)
}
