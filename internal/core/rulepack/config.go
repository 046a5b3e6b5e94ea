package rulepack

import (
	"liverkpi/internal/platform/config"
)

// FromConfig builds the effective policy from CORE_KPI_* keys:
// PACK_FILE replaces the embedded pack, RULES_FILE is merged on top and
// FOLLOWER_NET overrides the formula last
func FromConfig(cfg config.Conf) (*Policy, error) {
	var (
		p   *Policy
		err error
	)
	if path := cfg.MayString("PACK_FILE", ""); path != "" {
		p, err = ReadFile(path)
	} else {
		p, err = Load()
	}
	if err != nil {
		return nil, err
	}

	var o Override
	if path := cfg.MayString("RULES_FILE", ""); path != "" {
		if o, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	o.FollowerNet = FollowerNet(cfg.MayEnum("FOLLOWER_NET", string(o.FollowerNet),
		string(NetLastMinusFirst), string(NetSumOfDeltas)))
	if o.Empty() {
		return p, nil
	}
	return Merge(p, o)
}
