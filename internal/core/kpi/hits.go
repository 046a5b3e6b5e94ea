package kpi

import (
	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/rulepack"
)

// Threshold is the effective cut-off a rule used for this batch
type Threshold struct {
	Rule    string           `json:"rule"`
	Kind    rulepack.Kind    `json:"kind"`
	Compare rulepack.Compare `json:"compare"`
	// Value is the ratio threshold or multiplier x mean; nil when the rule
	// could not be evaluated (no operand rows or non-positive mean)
	Value *float64 `json:"value"`
	Mean  *float64 `json:"mean,omitempty"`
	Rows  int      `json:"rows"`
}

// Hit is a row that crossed at least one rule
type Hit struct {
	Row   broadcast.Record `json:"row"`
	Rules []string         `json:"rules"`
}

// Thresholds resolves every rule against the batch
func Thresholds(rows []broadcast.Record, p *rulepack.Policy) []Threshold {
	out := make([]Threshold, 0, len(p.Rules))
	for _, rule := range p.Rules {
		th := Threshold{Rule: rule.Name, Kind: rule.Kind, Compare: rule.Compare}
		switch rule.Kind {
		case rulepack.KindRatio:
			th.Value = ptr(rule.Threshold)
			for i := range rows {
				if _, ok := RowRatio(&rows[i], rule.Numerator, rule.Denominator); ok {
					th.Rows++
				}
			}
		case rulepack.KindMagnitude:
			var xs []float64
			for i := range rows {
				if v := rows[i].Get(rule.Metric); v.OK {
					xs = append(xs, v.V)
				}
			}
			th.Rows = len(xs)
			if len(xs) > 0 {
				m := mean(xs)
				th.Mean = ptr(m)
				if m > 0 {
					th.Value = ptr(rule.Multiplier * m)
				}
			}
		}
		out = append(out, th)
	}
	return out
}

func crosses(v, limit float64, c rulepack.Compare) bool {
	if c == rulepack.AtMost {
		return v <= limit
	}
	return v >= limit
}

// Hits evaluates every rule on every row independently; a row missing an
// operand is skipped for that rule only and rows matching nothing are omitted
func Hits(rows []broadcast.Record, p *rulepack.Policy) ([]Hit, []Threshold) {
	ths := Thresholds(rows, p)
	var out []Hit
	for i := range rows {
		r := &rows[i]
		var matched []string
		for j, rule := range p.Rules {
			limit := ths[j].Value
			if limit == nil {
				continue
			}
			var (
				v  float64
				ok bool
			)
			switch rule.Kind {
			case rulepack.KindRatio:
				v, ok = RowRatio(r, rule.Numerator, rule.Denominator)
			case rulepack.KindMagnitude:
				val := r.Get(rule.Metric)
				v, ok = val.V, val.OK
			}
			if ok && crosses(v, *limit, rule.Compare) {
				matched = append(matched, rule.Name)
			}
		}
		if len(matched) > 0 {
			out = append(out, Hit{Row: *r, Rules: matched})
		}
	}
	return out, ths
}
