package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/metaqueue/pkg/preview"
)

// QuotaLimiter gates AddFiles with a daily operation budget.
// quota.DailyBudget satisfies it.
type QuotaLimiter interface {
	CheckLimit(ctx context.Context, operation string) (bool, error)
	RecordUsage(ctx context.Context, operation string) error
}

// Option is a functional option for configuring a Manager.
type Option func(*options)

type options struct {
	config   Config
	quota    QuotaLimiter
	previews *preview.Manager
	logger   *slog.Logger
	now      func() time.Time
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithMaxItems sets the queue capacity.
func WithMaxItems(n int) Option {
	return func(o *options) {
		o.config.MaxItems = n
	}
}

// WithMaxConcurrent sets the batch size.
func WithMaxConcurrent(n int) Option {
	return func(o *options) {
		o.config.MaxConcurrent = n
	}
}

// WithQuota sets the quota collaborator. Without it AddFiles is not metered.
func WithQuota(q QuotaLimiter) Option {
	return func(o *options) {
		o.quota = q
	}
}

// WithQuotaOperation sets the operation name charged per AddFiles call.
func WithQuotaOperation(op string) Option {
	return func(o *options) {
		o.config.QuotaOperation = op
	}
}

// WithPreviews sets the preview manager. Defaults to an in-memory one.
func WithPreviews(m *preview.Manager) Option {
	return func(o *options) {
		if m != nil {
			o.previews = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAutoStart controls whether admissions start the scheduler.
// When disabled, call Start.
func WithAutoStart(enabled bool) Option {
	return func(o *options) {
		o.config.AutoStart = enabled
	}
}

// WithClock overrides the time source used for item timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
