package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option customizes a single Load call.
type Option func(*options)

type options struct {
	prefix      string
	files       []string
	filesStrict bool
	environment map[string]string
}

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles replaces the default ".env" lookup. Files given here must exist.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.files = files
		o.filesStrict = true
	}
}

// WithoutEnvFiles disables env file loading.
func WithoutEnvFiles() Option {
	return func(o *options) {
		o.files = nil
		o.filesStrict = false
	}
}

// WithEnvironment parses from vars instead of the process environment.
// Env files are not consulted.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environment = vars }
}

// Load fills v from the environment.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{files: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	if o.environment == nil {
		if err := loadFiles(o.files, o.filesStrict); err != nil {
			return err
		}
	}

	parseOpts := env.Options{Prefix: o.prefix}
	if o.environment != nil {
		parseOpts.Environment = o.environment
	}

	if err := env.ParseWithOptions(v, parseOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func loadFiles(files []string, strict bool) error {
	for _, f := range files {
		if !strict {
			if _, err := os.Stat(f); err != nil {
				continue
			}
		}
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(f); err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", f, err))
		}
	}
	return nil
}
