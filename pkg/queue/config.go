package queue

import "fmt"

// Config holds the capacity settings of a Manager.
type Config struct {
	// MaxItems caps the number of items held by the queue.
	MaxItems int `env:"QUEUE_MAX_ITEMS" envDefault:"10"`
	// MaxConcurrent caps in-flight extractions per batch.
	MaxConcurrent int `env:"QUEUE_MAX_CONCURRENT" envDefault:"3"`
	// QuotaOperation is the operation name charged against the quota.
	QuotaOperation string `env:"QUEUE_QUOTA_OPERATION" envDefault:"bulk_extract"`
	// AutoStart starts the scheduler whenever items become pending.
	AutoStart bool `env:"QUEUE_AUTO_START" envDefault:"true"`
	// SubscriberBuffer is the per-subscriber snapshot buffer.
	SubscriberBuffer int `env:"QUEUE_SUBSCRIBER_BUFFER" envDefault:"16"`
}

// DefaultQuotaOperation is charged when no operation is configured.
const DefaultQuotaOperation = "bulk_extract"

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		MaxItems:         10,
		MaxConcurrent:    3,
		QuotaOperation:   DefaultQuotaOperation,
		AutoStart:        true,
		SubscriberBuffer: 16,
	}
}

func (c Config) validate() error {
	if c.MaxItems < 1 {
		return fmt.Errorf("%w: max items must be positive, got %d", ErrInvalidConfig, c.MaxItems)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("%w: max concurrent must be positive, got %d", ErrInvalidConfig, c.MaxConcurrent)
	}
	if c.QuotaOperation == "" {
		return fmt.Errorf("%w: quota operation is required", ErrInvalidConfig)
	}
	return nil
}
