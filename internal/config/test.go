package config

import "github.com/caarlos0/env/v11"

// TestConfig gates DB-backed tests; they skip when the DSN is not set.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
