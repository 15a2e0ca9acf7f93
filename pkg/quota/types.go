package quota

import (
	"context"
	"time"
)

// Unlimited disables the budget for an operation.
const Unlimited int64 = -1

// Limiter is the contract consumed by the queue.
type Limiter interface {
	CheckLimit(ctx context.Context, operation string) (bool, error)
	RecordUsage(ctx context.Context, operation string) error
}

// Config describes per-operation daily budgets.
type Config struct {
	// DefaultLimit applies to operations missing from Limits.
	DefaultLimit int64 `env:"QUOTA_DAILY_LIMIT" envDefault:"50"`
	// Limits overrides DefaultLimit per operation, e.g. "bulk_extract:10".
	Limits map[string]int64 `env:"QUOTA_LIMITS" envSeparator:"," envKeyValSeparator:":"`
	// KeyPrefix namespaces store keys.
	KeyPrefix string `env:"QUOTA_KEY_PREFIX" envDefault:"quota"`
	// Retention is how long a day's counter is kept; at least 24h.
	Retention time.Duration `env:"QUOTA_RETENTION" envDefault:"48h"`
}

// Usage is the state of one operation's budget for the current day.
type Usage struct {
	Operation string    `json:"operation"`
	Current   int64     `json:"current"`
	Limit     int64     `json:"limit"`
	ResetAt   time.Time `json:"reset_at"`
}

// Remaining returns how many units are left, or Unlimited.
func (u Usage) Remaining() int64 {
	if u.Limit == Unlimited {
		return Unlimited
	}
	return max(u.Limit-u.Current, 0)
}

// Exceeded reports whether no unit is left.
func (u Usage) Exceeded() bool {
	return u.Limit != Unlimited && u.Current >= u.Limit
}
