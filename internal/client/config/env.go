package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// parseEnv overlays Config with values from RECEITA_* environment variables.
// Unset variables leave the current values in place.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		panic(err)
	}
}
