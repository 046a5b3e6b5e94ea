package module

import (
	"time"

	"liverkpi/internal/platform/config"
)

// Options holds configuration options for the analysis service
type Options struct {
	Workers        int
	RequestTimeout time.Duration
	MonthTimeout   time.Duration
	Location       *time.Location
	MinYear        int
	MaxMonths      int
}

// FromConfig reads the analysis options with the CORE_ANALYSIS_ prefix
func FromConfig(cfg config.Conf) Options {
	an := cfg.Prefix("CORE_ANALYSIS_")
	return Options{
		Workers:        an.MayInt("WORKERS", 1),
		RequestTimeout: an.MayDuration("REQUEST_TIMEOUT", 2*time.Minute),
		MonthTimeout:   an.MayDuration("MONTH_TIMEOUT", 45*time.Second),
		Location:       an.MayLocation("TZ", "Asia/Tokyo"),
		MinYear:        an.MayInt("MIN_YEAR", 2023),
		MaxMonths:      an.MayInt("MAX_MONTHS", 36),
	}
}
