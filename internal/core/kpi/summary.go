package kpi

import (
	"time"

	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/rulepack"
)

// Summary holds period totals
type Summary struct {
	Rows          int       `json:"rows"`
	First         time.Time `json:"first,omitzero"`
	Last          time.Time `json:"last,omitzero"`
	SupportPoints float64   `json:"support_points"`

	// FollowersDisplayable is false for the every-broadcaster aggregate,
	// where follower counts of different accounts cannot be combined
	FollowersDisplayable bool                 `json:"followers_displayable"`
	FollowerNetMode      rulepack.FollowerNet `json:"follower_net_mode"`
	// FollowerNet follows FollowerNetMode; nil when not displayable or no data
	FollowerNet *float64 `json:"follower_net"`
	// FollowerDeltaSum is always the per-row delta sum so a disagreement
	// with last minus first stays visible
	FollowerDeltaSum *float64 `json:"follower_delta_sum"`
	LatestFollowers  *float64 `json:"latest_followers"`
}

// Summarize expects rows in ascending time order
func Summarize(rows []broadcast.Record, aggregate bool, mode rulepack.FollowerNet) Summary {
	if mode == "" {
		mode = rulepack.NetLastMinusFirst
	}
	s := Summary{
		Rows:                 len(rows),
		FollowersDisplayable: !aggregate,
		FollowerNetMode:      mode,
	}
	if len(rows) == 0 {
		return s
	}
	s.First, s.Last = rows[0].StartedAt, rows[len(rows)-1].StartedAt

	var (
		deltaSum    float64
		deltaSeen   bool
		first, last broadcast.Value
	)
	for i := range rows {
		r := &rows[i]
		s.SupportPoints += r.Sum(broadcast.SupportPoints)
		if d := r.Get(broadcast.FollowerDelta); d.OK {
			deltaSum += d.V
			deltaSeen = true
		}
		if f := r.Get(broadcast.Followers); f.OK {
			if !first.OK {
				first = f
			}
			last = f
		}
	}
	if aggregate {
		return s
	}

	if deltaSeen {
		s.FollowerDeltaSum = ptr(deltaSum)
	}
	if last.OK {
		s.LatestFollowers = ptr(last.V)
	}
	switch mode {
	case rulepack.NetSumOfDeltas:
		s.FollowerNet = s.FollowerDeltaSum
	default:
		if first.OK {
			s.FollowerNet = ptr(last.V - first.V)
		}
	}
	return s
}
