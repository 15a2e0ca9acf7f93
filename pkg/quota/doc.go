// Package quota implements a daily operation budget: a caller may perform a
// named operation at most N times per UTC day.
//
// DailyBudget answers two questions, matching what the queue needs from a
// usage limiter:
//
//   - CheckLimit reports whether the budget for an operation still has room;
//   - RecordUsage charges one unit against today's budget.
//
// Counters live in a Store keyed by "<prefix>:<operation>:<YYYY-MM-DD>", so a
// new day starts with a fresh counter and old keys expire on their own. Two
// stores are provided: MemoryStore for a single process, and RedisStore
// (github.com/redis/go-redis/v9) for budgets shared between processes.
//
// # Usage
//
//	budget, err := quota.NewDailyBudget(quota.NewMemoryStore(), quota.Config{
//	    DefaultLimit: 25,
//	    Limits:       map[string]int64{"bulk_extract": 10},
//	})
//	if err != nil {
//	    return err
//	}
//
//	ok, err := budget.CheckLimit(ctx, "bulk_extract")
//	if err == nil && ok {
//	    // ... do the work ...
//	    _ = budget.RecordUsage(ctx, "bulk_extract")
//	}
//
// A limit of Unlimited (-1) disables the check for that operation; a limit of
// 0 forbids it entirely.
package quota
