package imagemeta

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/metaqueue/pkg/async"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
)

// Metadata keys produced by Extract.
const (
	KeyName     = "name"
	KeySize     = "size"
	KeyMIMEType = "mime_type"
	KeyFormat   = "format"
	KeyWidth    = "width"
	KeyHeight   = "height"
	KeySHA256   = "sha256"
)

// DefaultMaxBytes caps how much of a payload is read.
const DefaultMaxBytes int64 = 50 << 20

// Extractor implements queue.Extractor for raster images.
type Extractor struct {
	timeout  time.Duration
	maxBytes int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout bounds a single extraction. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// WithMaxBytes sets the largest payload accepted.
func WithMaxBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBytes = n
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads p and returns its image metadata.
func (e *Extractor) Extract(ctx context.Context, p queue.Payload) (queue.Metadata, error) {
	if e.timeout <= 0 {
		return e.extract(ctx, p)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	md, err := async.Go(ctx, p, e.extract).AwaitContext(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
	return md, err
}

func (e *Extractor) extract(ctx context.Context, p queue.Payload) (queue.Metadata, error) {
	rc, err := p.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, e.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	sum := sha256.Sum256(data)
	return queue.Metadata{
		KeyName:     p.Name(),
		KeySize:     int64(len(data)),
		KeyMIMEType: mimeType,
		KeyFormat:   format,
		KeyWidth:    cfg.Width,
		KeyHeight:   cfg.Height,
		KeySHA256:   hex.EncodeToString(sum[:]),
	}, nil
}
