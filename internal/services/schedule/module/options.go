package module

import "glowdesk/internal/platform/config"

// Options for the schedule module
type Options struct {
	// HorizonDays is the rolling generation window length
	HorizonDays int
}

// FromConfig reads module options from the environment
func FromConfig(cfg config.Conf) Options {
	return Options{
		HorizonDays: cfg.MayInt("SCHEDULE_HORIZON_DAYS", 60),
	}
}
