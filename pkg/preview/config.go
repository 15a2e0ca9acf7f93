package preview

import (
	"context"
	"fmt"
)

const (
	DriverMemory = "memory"
	DriverLocal  = "local"
	DriverS3     = "s3"
)

// Config selects and configures the preview backend.
type Config struct {
	Driver   string   `env:"PREVIEW_DRIVER" envDefault:"memory"`
	Prefix   string   `env:"PREVIEW_PREFIX" envDefault:"previews"`
	LocalDir string   `env:"PREVIEW_LOCAL_DIR" envDefault:"./var/previews"`
	LocalURL string   `env:"PREVIEW_LOCAL_URL" envDefault:"/previews/"`
	S3       S3Config `envPrefix:"PREVIEW_S3_"`
}

// NewBackend builds the Backend named by cfg.Driver. S3 options are passed
// through to NewS3Storage.
func NewBackend(ctx context.Context, cfg Config, s3opts ...S3Option) (Backend, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryBackend(), nil
	case DriverLocal:
		storage, err := NewLocalStorage(cfg.LocalDir, cfg.LocalURL)
		if err != nil {
			return nil, err
		}
		return NewStorageBackend(storage, WithPathPrefix(cfg.Prefix)), nil
	case DriverS3:
		storage, err := NewS3Storage(ctx, cfg.S3, s3opts...)
		if err != nil {
			return nil, err
		}
		return NewStorageBackend(storage, WithPathPrefix(cfg.Prefix)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
