package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every environment key read through ParseEnv.
const Prefix = "TICTAC_"

// ParseEnv loads configuration from TICTAC_-prefixed environment variables.
// Struct tags name keys without the prefix, e.g. `env:"GAME_ADDR"`.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
