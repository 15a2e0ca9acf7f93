package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/metaqueue/pkg/config"
)

type sampleConfig struct {
	Name     string        `env:"NAME" envDefault:"default"`
	Workers  int           `env:"WORKERS" envDefault:"2"`
	Interval time.Duration `env:"INTERVAL" envDefault:"5s"`
	Nested   nestedConfig
}

type nestedConfig struct {
	Enabled bool `env:"NESTED_ENABLED" envDefault:"true"`
}

type requiredConfig struct {
	Token string `env:"TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))
		assert.Equal(t, "default", cfg.Name)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, 5*time.Second, cfg.Interval)
		assert.True(t, cfg.Nested.Enabled)
	})

	t.Run("explicit environment", func(t *testing.T) {
		t.Parallel()
		var cfg sampleConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{
			"NAME":           "custom",
			"WORKERS":        "8",
			"INTERVAL":       "1m",
			"NESTED_ENABLED": "false",
		}))
		require.NoError(t, err)
		assert.Equal(t, "custom", cfg.Name)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, time.Minute, cfg.Interval)
		assert.False(t, cfg.Nested.Enabled)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		var cfg sampleConfig
		err := config.Load(&cfg,
			config.WithPrefix("APP_"),
			config.WithEnvironment(map[string]string{"APP_NAME": "prefixed", "NAME": "ignored"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.Name)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()
		var cfg sampleConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"WORKERS": "many"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("required missing", func(t *testing.T) {
		t.Parallel()
		var cfg requiredConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		var cfg *sampleConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestLoad_EnvFiles(t *testing.T) {
	t.Run("reads values from file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(path, []byte("METAQUEUE_TEST_FILE_VALUE=from-file\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("METAQUEUE_TEST_FILE_VALUE") })

		var cfg struct {
			Value string `env:"METAQUEUE_TEST_FILE_VALUE"`
		}
		require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
		assert.Equal(t, "from-file", cfg.Value)
	})

	t.Run("process environment wins", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(path, []byte("METAQUEUE_TEST_OVERRIDE=from-file\n"), 0o600))
		t.Setenv("METAQUEUE_TEST_OVERRIDE", "from-env")

		var cfg struct {
			Value string `env:"METAQUEUE_TEST_OVERRIDE"`
		}
		require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
		assert.Equal(t, "from-env", cfg.Value)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		var cfg sampleConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "absent.env")))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})

	t.Run("missing default file is fine", func(t *testing.T) {
		var cfg sampleConfig
		assert.NoError(t, config.Load(&cfg, config.WithoutEnvFiles()))
	})
}

func TestMustLoad(t *testing.T) {
	t.Parallel()
	var cfg requiredConfig
	assert.Panics(t, func() {
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}
