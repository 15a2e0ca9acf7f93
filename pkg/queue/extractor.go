package queue

import (
	"context"
	"maps"
)

// Metadata is the result of a successful extraction.
type Metadata map[string]any

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Extractor turns a payload into metadata. It may be slow and it may fail; it
// is expected to enforce its own timeout.
type Extractor interface {
	Extract(ctx context.Context, p Payload) (Metadata, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, p Payload) (Metadata, error)

// Extract calls f(ctx, p).
func (f ExtractorFunc) Extract(ctx context.Context, p Payload) (Metadata, error) {
	return f(ctx, p)
}
