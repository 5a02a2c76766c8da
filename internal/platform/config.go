package platform

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env is the configuration read from FOLIO_* environment variables.
type Env struct {
	Store           string        `env:"FOLIO_STORE"`
	Bootstrap       string        `env:"FOLIO_BOOTSTRAP" envDefault:"embedded"`
	MaxSeedPasses   int           `env:"FOLIO_MAX_SEED_PASSES"`
	SeedConcurrency int           `env:"FOLIO_SEED_CONCURRENCY"`
	Timeout         time.Duration `env:"FOLIO_TIMEOUT" envDefault:"30s"`
	Addr            string        `env:"FOLIO_ADDR" envDefault:"127.0.0.1:3000"`
	DB              string        `env:"FOLIO_DB" envDefault:"folio.db"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv returns the FOLIO_* configuration.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// Options converts the environment into service options.
func (e Env) Options() []Option {
	return []Option{
		WithDataset(e.Bootstrap),
		WithMaxSeedPasses(e.MaxSeedPasses),
		WithSeedConcurrency(e.SeedConcurrency),
		WithTimeout(e.Timeout),
	}
}
