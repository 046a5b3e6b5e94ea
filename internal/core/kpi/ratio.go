package kpi

import "liverkpi/internal/core/broadcast"

// RatioDef names one novelty or conversion ratio
type RatioDef struct {
	Name        string
	Numerator   broadcast.Metric
	Denominator broadcast.Metric
}

// Ratios is the fixed ratio set in report order
var Ratios = []RatioDef{
	{Name: "first_visitor_rate", Numerator: broadcast.FirstVisitors, Denominator: broadcast.UniqueViewers},
	{Name: "first_comment_rate", Numerator: broadcast.FirstCommenters, Denominator: broadcast.Commenters},
	{Name: "first_gift_rate", Numerator: broadcast.FirstGifters, Denominator: broadcast.Gifters},
	{Name: "short_stay_rate", Numerator: broadcast.ShortStayViewers, Denominator: broadcast.UniqueViewers},
	{Name: "sg_gift_count_rate", Numerator: broadcast.SGGiftCount, Denominator: broadcast.Gifts},
	{Name: "sg_gift_person_rate", Numerator: broadcast.SGGiftPersons, Denominator: broadcast.Gifters},
}

// Benchmark summarizes per-row ratios over the population
type Benchmark struct {
	Stat
	Rows int `json:"rows"`
}

// RatioResult is one ratio for the selection plus its benchmark
type RatioResult struct {
	Name string `json:"name"`
	// Value is nil when no row had both operands with a positive denominator
	Value       *float64   `json:"value"`
	Numerator   float64    `json:"numerator"`
	Denominator float64    `json:"denominator"`
	Rows        int        `json:"rows"`
	Benchmark   *Benchmark `json:"benchmark,omitempty"`
}

// RowRatio is num/den for one row; ok=false when either is missing or den <= 0
func RowRatio(r *broadcast.Record, num, den broadcast.Metric) (float64, bool) {
	n, d := r.Get(num), r.Get(den)
	if !n.OK || !d.OK || d.V <= 0 {
		return 0, false
	}
	return n.V / d.V, true
}

// Ratio is Σnum/Σden over rows where both are present and den > 0
func Ratio(rows []broadcast.Record, def RatioDef) RatioResult {
	out := RatioResult{Name: def.Name}
	for i := range rows {
		n, d := rows[i].Get(def.Numerator), rows[i].Get(def.Denominator)
		if !n.OK || !d.OK || d.V <= 0 {
			continue
		}
		out.Numerator += n.V
		out.Denominator += d.V
		out.Rows++
	}
	if out.Denominator > 0 {
		out.Value = ptr(out.Numerator / out.Denominator)
	}
	return out
}

// BenchmarkOf is the mean and median of per-row ratios; nil when no row qualifies
func BenchmarkOf(rows []broadcast.Record, def RatioDef) *Benchmark {
	var xs []float64
	for i := range rows {
		if v, ok := RowRatio(&rows[i], def.Numerator, def.Denominator); ok {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	return &Benchmark{Stat: stat(xs), Rows: len(xs)}
}
