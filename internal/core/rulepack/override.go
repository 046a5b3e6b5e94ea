package rulepack

import (
	"encoding/json"
	"fmt"
	"os"
)

// RuleOverride changes one named rule; nil fields keep the base value
type RuleOverride struct {
	Name       string   `json:"name"`
	Threshold  *float64 `json:"threshold,omitempty"`
	Multiplier *float64 `json:"multiplier,omitempty"`
	Disabled   bool     `json:"disabled,omitempty"`
}

// Override is a sparse policy patch
type Override struct {
	FollowerNet         FollowerNet    `json:"follower_net,omitempty"`
	SupportPerViewer    *float64       `json:"support_per_viewer,omitempty"`
	CommentersPerViewer *float64       `json:"commenters_per_viewer,omitempty"`
	Rules               []RuleOverride `json:"rules,omitempty"`
}

// Empty reports an override that changes nothing
func (o Override) Empty() bool {
	return o.FollowerNet == "" && o.SupportPerViewer == nil && o.CommentersPerViewer == nil && len(o.Rules) == 0
}

// LoadFile reads an override document; unknown fields are rejected
func LoadFile(path string) (Override, error) {
	f, err := os.Open(path)
	if err != nil {
		return Override{}, fmt.Errorf("rulepack: %w", err)
	}
	defer func() { _ = f.Close() }()

	var o Override
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return Override{}, fmt.Errorf("rulepack: parse %s: %w", path, err)
	}
	return o, nil
}

// Merge applies o to a copy of base and validates the result
func Merge(base *Policy, o Override) (*Policy, error) {
	p := base.Clone()
	if o.FollowerNet != "" {
		p.FollowerNet = o.FollowerNet
	}
	if o.SupportPerViewer != nil {
		p.Insights.SupportPerViewer = *o.SupportPerViewer
	}
	if o.CommentersPerViewer != nil {
		p.Insights.CommentersPerViewer = *o.CommentersPerViewer
	}

	drop := map[string]bool{}
	for _, ro := range o.Rules {
		i := p.index(ro.Name)
		if i < 0 {
			return nil, fmt.Errorf("rulepack: override for unknown rule %q", ro.Name)
		}
		if ro.Disabled {
			drop[ro.Name] = true
			continue
		}
		r := &p.Rules[i]
		if ro.Threshold != nil {
			if r.Kind != KindRatio {
				return nil, fmt.Errorf("rulepack: rule %q: threshold applies to ratio rules only", r.Name)
			}
			r.Threshold = *ro.Threshold
		}
		if ro.Multiplier != nil {
			if r.Kind != KindMagnitude {
				return nil, fmt.Errorf("rulepack: rule %q: multiplier applies to magnitude rules only", r.Name)
			}
			r.Multiplier = *ro.Multiplier
		}
	}
	if len(drop) > 0 {
		kept := p.Rules[:0]
		for _, r := range p.Rules {
			if !drop[r.Name] {
				kept = append(kept, r)
			}
		}
		p.Rules = kept
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) index(name string) int {
	for i, r := range p.Rules {
		if r.Name == name {
			return i
		}
	}
	return -1
}
