// Package config loads environment variables into tagged configuration
// structs.
//
// Load parses env vars with github.com/caarlos0/env/v11 using the `env`,
// `envDefault` and `required` struct tags. Before parsing it loads `.env`
// style files with github.com/joho/godotenv; the default file is ".env" in the
// working directory and a missing file is not an error. Values already
// present in the process environment always win over file values.
//
// # Usage
//
//	type Config struct {
//	    MaxItems      int `env:"QUEUE_MAX_ITEMS" envDefault:"10"`
//	    MaxConcurrent int `env:"QUEUE_MAX_CONCURRENT" envDefault:"3"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Nested structs are supported, and WithPrefix scopes every variable name,
// so the same struct can be loaded for several instances ("PRIMARY_", ...).
// Tests pass explicit variables with WithEnvironment instead of mutating the
// process environment.
package config
