// Package time contains calendar helpers and a clock seam
package time

import "time"

// Clock abstracts time.Now for tests
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// System is the wall clock
var System Clock = ClockFunc(time.Now)

// Fixed returns a clock frozen at t
func Fixed(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }

// DayStart returns midnight of t's day in t's location
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last representable instant of t's day in t's location
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MonthStart returns the first instant of t's month in t's location
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
