package configs

import "time"

// Resolver configures the tiered catalog resolver.
type Resolver struct {
	// TierTimeout bounds each tier's store call so a hung tier cannot keep
	// the cascade from reaching the static fallback. The full cascade is
	// therefore bounded by roughly twice this value (the static tier is an
	// in-process constant and cannot hang).
	TierTimeout time.Duration `env:"TIER_TIMEOUT" envDefault:"250ms"`
}
