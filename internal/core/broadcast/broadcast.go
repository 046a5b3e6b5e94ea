// Package broadcast holds the typed record for one live-broadcast session and
// the export schema that maps CSV headers onto it.
package broadcast

import (
	"encoding/json"
	"time"
)

// Metric names one numeric column of the export
type Metric int

// Metrics in export column order
const (
	TotalViews Metric = iota
	UniqueViewers
	Followers // cumulative, never summed
	SupportPoints
	Comments
	Gifts
	SGTotal
	Commenters
	FirstCommenters
	Gifters
	FirstGifters
	FollowerDelta
	FirstVisitors
	DurationMinutes
	ShortStayViewers
	SGGiftCount
	SGGiftPersons

	metricCount
)

var metricKeys = [metricCount]string{
	TotalViews:       "total_views",
	UniqueViewers:    "unique_viewers",
	Followers:        "followers",
	SupportPoints:    "support_points",
	Comments:         "comments",
	Gifts:            "gifts",
	SGTotal:          "sg_total",
	Commenters:       "commenters",
	FirstCommenters:  "first_commenters",
	Gifters:          "gifters",
	FirstGifters:     "first_gifters",
	FollowerDelta:    "follower_delta",
	FirstVisitors:    "first_visitors",
	DurationMinutes:  "duration_minutes",
	ShortStayViewers: "short_stay_viewers",
	SGGiftCount:      "sg_gift_count",
	SGGiftPersons:    "sg_gift_persons",
}

// String returns the snake_case key used in JSON and rule files
func (m Metric) String() string {
	if m < 0 || m >= metricCount {
		return "unknown"
	}
	return metricKeys[m]
}

// ParseMetric resolves a snake_case key
func ParseMetric(s string) (Metric, bool) {
	for i, k := range metricKeys {
		if k == s {
			return Metric(i), true
		}
	}
	return 0, false
}

// Metrics lists every metric in column order
func Metrics() []Metric {
	out := make([]Metric, metricCount)
	for i := range out {
		out[i] = Metric(i)
	}
	return out
}

// Value is a numeric cell; OK=false means the cell was empty or unparseable
type Value struct {
	V  float64
	OK bool
}

// Some wraps a present value
func Some(v float64) Value { return Value{V: v, OK: true} }

// Missing is the absent value
var Missing = Value{}

// Or returns the value or def when missing
func (v Value) Or(def float64) float64 {
	if !v.OK {
		return def
	}
	return v.V
}

// MarshalJSON writes null for missing
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.OK {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

// Record is one broadcast session
type Record struct {
	AccountID string
	RoomID    string
	RoomName  string
	StartedAt time.Time
	EventName string

	values [metricCount]Value
}

// Get returns the cell for m
func (r *Record) Get(m Metric) Value {
	if m < 0 || m >= metricCount {
		return Missing
	}
	return r.values[m]
}

// Set stores the cell for m
func (r *Record) Set(m Metric, v Value) {
	if m < 0 || m >= metricCount {
		return
	}
	r.values[m] = v
}

// Sum treats missing as zero
func (r *Record) Sum(m Metric) float64 { return r.Get(m).Or(0) }

// Key identifies a broadcast across overlapping monthly files
type Key struct {
	AccountID string
	At        int64 // unix nanos
}

// Key returns the de-duplication key
func (r *Record) Key() Key { return Key{AccountID: r.AccountID, At: r.StartedAt.UnixNano()} }

type recordJSON struct {
	AccountID string           `json:"account_id"`
	RoomID    string           `json:"room_id,omitempty"`
	RoomName  string           `json:"room_name,omitempty"`
	StartedAt time.Time        `json:"started_at"`
	EventName string           `json:"event_name,omitempty"`
	Metrics   map[string]Value `json:"metrics"`
}

// MarshalJSON flattens metrics into a keyed object
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]Value, metricCount)
	for i, v := range r.values {
		m[metricKeys[i]] = v
	}
	return json.Marshal(recordJSON{
		AccountID: r.AccountID,
		RoomID:    r.RoomID,
		RoomName:  r.RoomName,
		StartedAt: r.StartedAt,
		EventName: r.EventName,
		Metrics:   m,
	})
}
