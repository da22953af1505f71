package configs

import "time"

// Sync configures the periodic catalog sync job.
type Sync struct {
	// Enabled controls whether the scheduler starts at all. Manual and
	// webhook triggers work regardless.
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// Interval is the fixed re-trigger period of the scheduler. It is
	// independent of the retry backoff inside a single run.
	Interval time.Duration `env:"INTERVAL" envDefault:"6h"`
	// RunOnStartup fires one run right after the service boots.
	RunOnStartup bool `env:"RUN_ON_STARTUP" envDefault:"false"`
	// NotableChangeThreshold is the combined creates+updates count above
	// which a run logs a notable-change signal.
	NotableChangeThreshold int `env:"NOTABLE_CHANGE_THRESHOLD" envDefault:"10"`
}
