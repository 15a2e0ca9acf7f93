// Package broadcast provides a type-safe, in-memory one-to-many message hub.
//
// Publishers never block. Each subscriber owns a bounded buffer; when it is
// full the oldest buffered message is discarded to make room for the new one,
// so a slow consumer always ends up holding the most recent state rather than
// a stale backlog. This fits state-snapshot feeds, where only the latest value
// matters.
//
// Basic usage:
//
//	hub := broadcast.NewHub[string](broadcast.WithBufferSize(4))
//	defer hub.Close()
//
//	sub := hub.Subscribe(ctx)
//	defer sub.Close()
//
//	hub.Publish("hello")
//
//	for msg := range sub.Messages() {
//		fmt.Println(msg)
//	}
//
// Subscriptions are removed automatically when their context is cancelled,
// when Close is called on them, or when the hub itself is closed. After the
// hub is closed, Subscribe returns an already-closed subscription and Publish
// is a no-op.
package broadcast
