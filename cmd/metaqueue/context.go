package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/metaqueue/pkg/config"
	"github.com/dmitrymomot/metaqueue/pkg/logger"
	"github.com/dmitrymomot/metaqueue/pkg/preview"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
	"github.com/dmitrymomot/metaqueue/pkg/quota"
	"github.com/dmitrymomot/metaqueue/pkg/redis"
)

const (
	quotaStoreMemory = "memory"
	quotaStoreRedis  = "redis"
)

// appConfig is everything the CLI reads from the environment.
type appConfig struct {
	Environment    string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
	QuotaStore     string        `env:"QUOTA_STORE" envDefault:"memory"`
	ExtractTimeout time.Duration `env:"EXTRACT_TIMEOUT" envDefault:"30s"`
	MaxFileBytes   int64         `env:"EXTRACT_MAX_BYTES" envDefault:"52428800"`

	Queue   queue.Config
	Quota   quota.Config
	Preview preview.Config
	Redis   redis.Config
}

type commandContext struct {
	envFiles []string
	// environment replaces the process environment when set.
	environment map[string]string
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) loadConfig() (appConfig, error) {
	var opts []config.Option
	switch {
	case c.environment != nil:
		opts = append(opts, config.WithEnvironment(c.environment))
	case len(c.envFiles) > 0:
		opts = append(opts, config.WithEnvFiles(c.envFiles...))
	}

	var cfg appConfig
	if err := config.Load(&cfg, opts...); err != nil {
		return appConfig{}, err
	}

	switch cfg.QuotaStore {
	case quotaStoreMemory, quotaStoreRedis:
	default:
		return appConfig{}, fmt.Errorf("unknown quota store %q: must be %q or %q",
			cfg.QuotaStore, quotaStoreMemory, quotaStoreRedis)
	}
	return cfg, nil
}

func (c *commandContext) newLogger(cfg appConfig, w io.Writer) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Environment, "metaqueue"),
		logger.WithOutput(w),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	if cfg.LogFormat != "" {
		f := logger.Format(strings.ToLower(cfg.LogFormat))
		if f != logger.FormatJSON && f != logger.FormatText {
			return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
		}
		opts = append(opts, logger.WithFormat(f))
	}
	return logger.New(opts...), nil
}
