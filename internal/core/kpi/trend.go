package kpi

import (
	"time"

	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/rulepack"
)

// TrendPoint is one broadcast on the time series
type TrendPoint struct {
	StartedAt     time.Time       `json:"started_at"`
	SupportPoints broadcast.Value `json:"support_points"`
	FollowerDelta broadcast.Value `json:"follower_delta"`
	Comments      broadcast.Value `json:"comments"`
}

// Trend keeps row order
func Trend(rows []broadcast.Record) []TrendPoint {
	out := make([]TrendPoint, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = TrendPoint{
			StartedAt:     r.StartedAt,
			SupportPoints: r.Get(broadcast.SupportPoints),
			FollowerDelta: r.Get(broadcast.FollowerDelta),
			Comments:      r.Get(broadcast.Comments),
		}
	}
	return out
}

// Insight compares a mean per-viewer rate with its threshold
type Insight struct {
	Mean      float64 `json:"mean"`
	Threshold float64 `json:"threshold"`
	High      bool    `json:"high"`
	Rows      int     `json:"rows"`
}

// Insights holds the engagement read-outs; nil entries had no usable rows
type Insights struct {
	SupportPerViewer    *Insight `json:"support_per_viewer"`
	CommentersPerViewer *Insight `json:"commenters_per_viewer"`
}

func insight(rows []broadcast.Record, num broadcast.Metric, threshold float64) *Insight {
	var xs []float64
	for i := range rows {
		if v, ok := RowRatio(&rows[i], num, broadcast.UniqueViewers); ok {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	m := mean(xs)
	return &Insight{Mean: m, Threshold: threshold, High: m > threshold, Rows: len(xs)}
}

// EngagementInsights reads support points and commenters per unique viewer
func EngagementInsights(rows []broadcast.Record, th rulepack.Insights) Insights {
	return Insights{
		SupportPerViewer:    insight(rows, broadcast.SupportPoints, th.SupportPerViewer),
		CommentersPerViewer: insight(rows, broadcast.Commenters, th.CommentersPerViewer),
	}
}
