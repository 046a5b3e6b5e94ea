package showroom

import (
	"fmt"
	"time"
)

// MonthRef identifies one monthly export
type MonthRef struct {
	Year  int
	Month int
}

// NewMonthRef returns the month containing t, in t's own zone
func NewMonthRef(t time.Time) MonthRef {
	return MonthRef{Year: t.Year(), Month: int(t.Month())}
}

// String returns the export spelling YYYY-MM
func (m MonthRef) String() string { return fmt.Sprintf("%04d-%02d", m.Year, m.Month) }

// Next returns the following calendar month
func (m MonthRef) Next() MonthRef {
	if m.Month >= 12 {
		return MonthRef{Year: m.Year + 1, Month: 1}
	}
	return MonthRef{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is strictly earlier than o
func (m MonthRef) Before(o MonthRef) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// MonthsBetween lists every calendar month intersecting [start, end] in
// ascending order. end before start yields nil.
func MonthsBetween(start, end time.Time) []MonthRef {
	if end.Before(start) {
		return nil
	}
	first, last := NewMonthRef(start), NewMonthRef(end.In(start.Location()))
	var out []MonthRef
	for m := first; !last.Before(m); m = m.Next() {
		out = append(out, m)
	}
	return out
}
