// Package rulepack loads the hit-detection policy from the embedded rules.json:
// per-rule floors, ceilings and mean multipliers, insight thresholds and the
// follower net formula. Overrides are merged by rule name.
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"liverkpi/internal/core/broadcast"
)

//go:embed rules.json
var embedded []byte

// Kind is the rule family
type Kind string

// Rule kinds
const (
	// KindRatio compares a per-row ratio against a fixed threshold
	KindRatio Kind = "ratio"
	// KindMagnitude compares a per-row value against multiplier x batch mean
	KindMagnitude Kind = "magnitude"
)

// Compare is the comparison direction
type Compare string

// Comparisons
const (
	AtLeast Compare = "gte"
	AtMost  Compare = "lte"
)

// FollowerNet selects the net follower formula
type FollowerNet string

// Follower net modes
const (
	// NetLastMinusFirst is last follower count minus first after time sort
	NetLastMinusFirst FollowerNet = "last_minus_first"
	// NetSumOfDeltas sums per-row follower deltas; double counts refetched rows
	NetSumOfDeltas FollowerNet = "sum_of_deltas"
)

// Rule is one compiled hit rule
type Rule struct {
	Name    string
	Kind    Kind
	Compare Compare
	Doc     string

	// ratio rules
	Numerator   broadcast.Metric
	Denominator broadcast.Metric
	Threshold   float64

	// magnitude rules
	Metric     broadcast.Metric
	Multiplier float64
}

// Insights holds the engagement thresholds; a mean strictly above is "high"
type Insights struct {
	SupportPerViewer    float64 `json:"support_per_viewer"`
	CommentersPerViewer float64 `json:"commenters_per_viewer"`
}

// Policy is the full compiled pack
type Policy struct {
	Version     int
	FollowerNet FollowerNet
	Insights    Insights
	Rules       []Rule
}

type rawRule struct {
	Name        string  `json:"name"`
	Kind        Kind    `json:"kind"`
	Compare     Compare `json:"compare,omitempty"`
	Numerator   string  `json:"numerator,omitempty"`
	Denominator string  `json:"denominator,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
	Metric      string  `json:"metric,omitempty"`
	Multiplier  float64 `json:"multiplier,omitempty"`
	Doc         string  `json:"doc,omitempty"`
}

type rawPack struct {
	Version     int         `json:"version"`
	FollowerNet FollowerNet `json:"follower_net"`
	Insights    Insights    `json:"insights"`
	Rules       []rawRule   `json:"rules"`
}

// Load returns the compiled embedded pack
func Load() (*Policy, error) { return Parse(embedded) }

// MustLoad panics when the embedded pack is invalid
func MustLoad() *Policy {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse compiles and validates a full pack document
func Parse(b []byte) (*Policy, error) {
	var rp rawPack
	if err := json.Unmarshal(b, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse rules.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("rulepack: unsupported rules.json version %d (want 1)", rp.Version)
	}
	p := &Policy{
		Version:     rp.Version,
		FollowerNet: rp.FollowerNet,
		Insights:    rp.Insights,
		Rules:       make([]Rule, 0, len(rp.Rules)),
	}
	if p.FollowerNet == "" {
		p.FollowerNet = NetLastMinusFirst
	}
	for _, rr := range rp.Rules {
		r, err := compile(rr)
		if err != nil {
			return nil, err
		}
		p.Rules = append(p.Rules, r)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func compile(rr rawRule) (Rule, error) {
	r := Rule{
		Name:       strings.TrimSpace(rr.Name),
		Kind:       rr.Kind,
		Compare:    rr.Compare,
		Doc:        rr.Doc,
		Threshold:  rr.Threshold,
		Multiplier: rr.Multiplier,
	}
	if r.Compare == "" {
		r.Compare = AtLeast
	}
	metric := func(field, s string) (broadcast.Metric, error) {
		m, ok := broadcast.ParseMetric(s)
		if !ok {
			return 0, fmt.Errorf("rulepack: rule %q: unknown %s metric %q", r.Name, field, s)
		}
		return m, nil
	}
	var err error
	switch r.Kind {
	case KindRatio:
		if r.Numerator, err = metric("numerator", rr.Numerator); err != nil {
			return Rule{}, err
		}
		if r.Denominator, err = metric("denominator", rr.Denominator); err != nil {
			return Rule{}, err
		}
	case KindMagnitude:
		if r.Metric, err = metric("magnitude", rr.Metric); err != nil {
			return Rule{}, err
		}
	default:
		return Rule{}, fmt.Errorf("rulepack: rule %q: unknown kind %q", r.Name, rr.Kind)
	}
	return r, nil
}

// Validate checks names, comparisons and bounds
func (p *Policy) Validate() error {
	switch p.FollowerNet {
	case NetLastMinusFirst, NetSumOfDeltas:
	default:
		return fmt.Errorf("rulepack: unknown follower_net %q", p.FollowerNet)
	}
	if p.Insights.SupportPerViewer < 0 || p.Insights.CommentersPerViewer < 0 {
		return fmt.Errorf("rulepack: insight thresholds must be non-negative")
	}
	seen := make(map[string]bool, len(p.Rules))
	for _, r := range p.Rules {
		if r.Name == "" {
			return fmt.Errorf("rulepack: rule without name")
		}
		if seen[r.Name] {
			return fmt.Errorf("rulepack: duplicate rule %q", r.Name)
		}
		seen[r.Name] = true
		if r.Compare != AtLeast && r.Compare != AtMost {
			return fmt.Errorf("rulepack: rule %q: unknown compare %q", r.Name, r.Compare)
		}
		switch r.Kind {
		case KindRatio:
			if !(r.Threshold > 0 && r.Threshold <= 1) {
				return fmt.Errorf("rulepack: rule %q: ratio threshold %v outside (0,1]", r.Name, r.Threshold)
			}
		case KindMagnitude:
			if !(r.Multiplier > 0) {
				return fmt.Errorf("rulepack: rule %q: multiplier must be positive, got %v", r.Name, r.Multiplier)
			}
		default:
			return fmt.Errorf("rulepack: rule %q: unknown kind %q", r.Name, r.Kind)
		}
	}
	return nil
}

// Rule finds a rule by name
func (p *Policy) Rule(name string) (Rule, bool) {
	for _, r := range p.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Clone returns a deep copy
func (p *Policy) Clone() *Policy {
	c := *p
	c.Rules = append([]Rule(nil), p.Rules...)
	return &c
}

// MarshalJSON writes the same document shape Parse reads
func (p Policy) MarshalJSON() ([]byte, error) {
	rp := rawPack{
		Version:     p.Version,
		FollowerNet: p.FollowerNet,
		Insights:    p.Insights,
		Rules:       make([]rawRule, 0, len(p.Rules)),
	}
	for _, r := range p.Rules {
		rr := rawRule{Name: r.Name, Kind: r.Kind, Compare: r.Compare, Doc: r.Doc}
		switch r.Kind {
		case KindRatio:
			rr.Numerator = r.Numerator.String()
			rr.Denominator = r.Denominator.String()
			rr.Threshold = r.Threshold
		case KindMagnitude:
			rr.Metric = r.Metric.String()
			rr.Multiplier = r.Multiplier
		}
		rp.Rules = append(rp.Rules, rr)
	}
	return json.Marshal(rp)
}

// ReadFile reads a whole pack document from disk
func ReadFile(path string) (*Policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulepack: %w", err)
	}
	return Parse(b)
}
