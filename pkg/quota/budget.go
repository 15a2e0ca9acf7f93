package quota

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DailyBudget implements Limiter on top of a Store.
type DailyBudget struct {
	store  Store
	config Config
	now    func() time.Time
}

// Option configures a DailyBudget.
type Option func(*DailyBudget)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *DailyBudget) {
		if now != nil {
			b.now = now
		}
	}
}

// NewDailyBudget validates cfg and returns a budget backed by store.
func NewDailyBudget(store Store, cfg Config, opts ...Option) (*DailyBudget, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is nil", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "quota"
	}
	if cfg.Retention < 24*time.Hour {
		cfg.Retention = 48 * time.Hour
	}

	b := &DailyBudget{store: store, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// CheckLimit reports whether operation may run once more today.
func (b *DailyBudget) CheckLimit(ctx context.Context, operation string) (bool, error) {
	u, err := b.Usage(ctx, operation)
	if err != nil {
		return false, err
	}
	return !u.Exceeded(), nil
}

// RecordUsage charges one unit against today's budget.
func (b *DailyBudget) RecordUsage(ctx context.Context, operation string) error {
	if operation == "" {
		return ErrInvalidOperation
	}
	if b.limit(operation) == Unlimited {
		return nil
	}
	if _, err := b.store.Increment(ctx, b.key(operation), b.config.Retention); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Usage returns today's counter and limit for operation.
func (b *DailyBudget) Usage(ctx context.Context, operation string) (Usage, error) {
	if operation == "" {
		return Usage{}, ErrInvalidOperation
	}
	u := Usage{
		Operation: operation,
		Limit:     b.limit(operation),
		ResetAt:   b.nextReset(),
	}
	if u.Limit == Unlimited {
		return u, nil
	}
	current, err := b.store.Count(ctx, b.key(operation))
	if err != nil {
		return Usage{}, errors.Join(ErrStoreUnavailable, err)
	}
	u.Current = current
	return u, nil
}

// Reset clears today's counter for operation.
func (b *DailyBudget) Reset(ctx context.Context, operation string) error {
	if operation == "" {
		return ErrInvalidOperation
	}
	if err := b.store.Reset(ctx, b.key(operation)); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (b *DailyBudget) limit(operation string) int64 {
	if l, ok := b.config.Limits[operation]; ok {
		return l
	}
	return b.config.DefaultLimit
}

func (b *DailyBudget) key(operation string) string {
	return fmt.Sprintf("%s:%s:%s", b.config.KeyPrefix, operation, b.now().UTC().Format(time.DateOnly))
}

func (b *DailyBudget) nextReset() time.Time {
	now := b.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}

func (c Config) validate() error {
	if c.DefaultLimit < Unlimited {
		return fmt.Errorf("%w: default limit must be >= -1, got %d", ErrInvalidConfig, c.DefaultLimit)
	}
	for op, l := range c.Limits {
		if op == "" {
			return fmt.Errorf("%w: empty operation name in limits", ErrInvalidConfig)
		}
		if l < Unlimited {
			return fmt.Errorf("%w: limit for %q must be >= -1, got %d", ErrInvalidConfig, op, l)
		}
	}
	return nil
}
