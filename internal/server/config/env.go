package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config fields from environment variables declared via
// the struct's env tags. Unset variables leave the current values intact.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
