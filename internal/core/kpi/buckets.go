package kpi

import (
	"fmt"

	"liverkpi/internal/core/broadcast"
)

// bucketBounds are the local-hour buckets; 21-22 is the narrow peak window
var bucketBounds = [...][2]int{
	{0, 3}, {3, 6}, {6, 9}, {9, 12}, {12, 15}, {15, 18}, {18, 21}, {21, 22}, {22, 24},
}

// BucketCount is the fixed number of time-of-day buckets
const BucketCount = len(bucketBounds)

// Bucket is one time-of-day row
type Bucket struct {
	Label         string `json:"label"`
	FromHour      int    `json:"from_hour"`
	ToHour        int    `json:"to_hour"`
	Count         int    `json:"count"`
	SupportPoints Stat   `json:"support_points"`
	TotalViews    Stat   `json:"total_views"`
	Comments      Stat   `json:"comments"`
}

// BucketIndex maps an hour of day to its bucket
func BucketIndex(hour int) int {
	for i, b := range bucketBounds {
		if hour >= b[0] && hour < b[1] {
			return i
		}
	}
	return -1
}

// Buckets always returns BucketCount rows in hour order; stats use present
// values only and empty buckets stay zero
func Buckets(rows []broadcast.Record) []Bucket {
	type acc struct{ sp, tv, cm []float64 }
	var accs [BucketCount]acc
	out := make([]Bucket, BucketCount)
	for i, b := range bucketBounds {
		out[i] = Bucket{Label: fmt.Sprintf("%02d-%02d", b[0], b[1]), FromHour: b[0], ToHour: b[1]}
	}

	for i := range rows {
		r := &rows[i]
		bi := BucketIndex(r.StartedAt.Hour())
		if bi < 0 {
			continue
		}
		out[bi].Count++
		a := &accs[bi]
		if v := r.Get(broadcast.SupportPoints); v.OK {
			a.sp = append(a.sp, v.V)
		}
		if v := r.Get(broadcast.TotalViews); v.OK {
			a.tv = append(a.tv, v.V)
		}
		if v := r.Get(broadcast.Comments); v.OK {
			a.cm = append(a.cm, v.V)
		}
	}
	for i := range out {
		out[i].SupportPoints = stat(accs[i].sp)
		out[i].TotalViews = stat(accs[i].tv)
		out[i].Comments = stat(accs[i].cm)
	}
	return out
}
