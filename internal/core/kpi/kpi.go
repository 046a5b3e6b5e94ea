// Package kpi derives the report for one assembled, time-ordered table:
// summary totals, novelty ratios with population benchmarks, time-of-day
// buckets, hit rows, a trend series and engagement insights. Every function
// is a pure pass over its input.
package kpi

import (
	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/rulepack"
)

// Input is one computation request
type Input struct {
	// Rows is the selection in ascending time order
	Rows []broadcast.Record
	// Population is the same window without the account filter; nil skips benchmarks
	Population []broadcast.Record
	// Aggregate marks the every-broadcaster view
	Aggregate bool
	Policy    *rulepack.Policy
}

// Report is the full KPI result
type Report struct {
	Summary    Summary       `json:"summary"`
	Ratios     []RatioResult `json:"ratios"`
	Buckets    []Bucket      `json:"buckets"`
	Hits       []Hit         `json:"hits"`
	Thresholds []Threshold   `json:"thresholds"`
	Trend      []TrendPoint  `json:"trend"`
	Insights   Insights      `json:"insights"`
}

// Compute builds the report; a nil policy means the embedded defaults
func Compute(in Input) Report {
	p := in.Policy
	if p == nil {
		p = rulepack.MustLoad()
	}

	rep := Report{
		Summary:  Summarize(in.Rows, in.Aggregate, p.FollowerNet),
		Ratios:   make([]RatioResult, 0, len(Ratios)),
		Buckets:  Buckets(in.Rows),
		Trend:    Trend(in.Rows),
		Insights: EngagementInsights(in.Rows, p.Insights),
	}
	for _, def := range Ratios {
		rr := Ratio(in.Rows, def)
		if in.Population != nil {
			rr.Benchmark = BenchmarkOf(in.Population, def)
		}
		rep.Ratios = append(rep.Ratios, rr)
	}
	rep.Hits, rep.Thresholds = Hits(in.Rows, p)
	if rep.Hits == nil {
		rep.Hits = []Hit{}
	}
	return rep
}
