package kpi

import "slices"

// Stat is a mean/median pair; both are zero when no values were seen
type Stat struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	c := slices.Clone(xs)
	slices.Sort(c)
	if n%2 == 1 {
		return c[n/2]
	}
	return (c[n/2-1] + c[n/2]) / 2
}

func stat(xs []float64) Stat { return Stat{Mean: mean(xs), Median: median(xs)} }

func ptr(v float64) *float64 { return &v }
