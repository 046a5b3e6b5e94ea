package showroom

import (
	"time"

	"liverkpi/internal/platform/config"
)

// DefaultBase is where the exports are published
const DefaultBase = "https://mksoul-pro.com/showroom/csv"

// Config is read from CORE_FEED_*
type Config struct {
	Base           string
	AllEncoding    string
	MemberEncoding string
	Timeout        time.Duration
	UserAgent      string
}

// FromConfig reads BASE_URL, ALL_ENCODING, MEMBER_ENCODING, TIMEOUT, USER_AGENT
func FromConfig(cfg config.Conf) Config {
	return Config{
		Base:           cfg.MayURL("BASE_URL", DefaultBase),
		AllEncoding:    cfg.MayString("ALL_ENCODING", "utf-8-sig"),
		MemberEncoding: cfg.MayString("MEMBER_ENCODING", "cp932"),
		Timeout:        cfg.MayDuration("TIMEOUT", 30*time.Second),
		UserAgent:      cfg.MayString("USER_AGENT", "liverkpi"),
	}
}

// Feed returns the family config for kind
func (c Config) Feed(kind Kind) Feed {
	enc := c.AllEncoding
	if kind == FeedMember {
		enc = c.MemberEncoding
	}
	return Feed{Kind: kind, Base: c.Base, Encoding: enc}
}
