package module

import (
	"time"

	"liverkpi/internal/platform/config"
)

// Options holds the events module configuration
type Options struct {
	URL      string
	Encoding string
	TTL      time.Duration
	Location *time.Location
}

// FromConfig reads the events options with the CORE_EVENTS_ prefix
func FromConfig(cfg config.Conf) Options {
	ev := cfg.Prefix("CORE_EVENTS_")
	return Options{
		URL:      ev.MayURL("URL", ""),
		Encoding: ev.MayString("ENCODING", "utf-8-sig"),
		TTL:      ev.MayDuration("TTL", 10*time.Minute),
		Location: ev.MayLocation("TZ", "Asia/Tokyo"),
	}
}
