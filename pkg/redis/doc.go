// Package redis connects to a Redis server for the shared quota store.
//
// Connect parses a redis:// URL, pings the server and retries a fixed number
// of times with a pause between attempts, all bounded by ConnectTimeout.
// Healthcheck returns a probe suitable for readiness checks.
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
