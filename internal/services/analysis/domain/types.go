// Package domain holds the analysis request and result contracts
package domain

import (
	"fmt"
	"time"

	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/kpi"
)

// AllAccounts selects every broadcaster combined
const AllAccounts = "all"

// Status of a finished run
type Status string

const (
	// StatusOK means the selection had rows and a report was computed
	StatusOK Status = "ok"
	// StatusEmpty means months were found but no row matched the filters
	StatusEmpty Status = "empty"
)

// Request is one analysis. Bounds are YYYY-MM-DD (whole days, end inclusive)
// or YYYY-MM-DDTHH:MM. When Event is set the event's own window is used and
// the bounds may be omitted.
type Request struct {
	Account     string `json:"account" validate:"required,max=200" example:"room_1234"`
	Start       string `json:"start,omitempty" validate:"required_without=Event,omitempty,window_bound" example:"2025-01-15"`
	End         string `json:"end,omitempty" validate:"required_without=Event,omitempty,window_bound" example:"2025-03-10"`
	Event       string `json:"event,omitempty" validate:"omitempty,max=200" example:"Spring Cup"`
	Feed        string `json:"feed,omitempty" validate:"omitempty,oneof=all member" example:"all"`
	Benchmark   bool   `json:"benchmark,omitempty" example:"true"`
	IncludeRows bool   `json:"include_rows,omitempty" example:"false"`
}

// Aggregate reports whether the request targets every broadcaster
func (r Request) Aggregate() bool { return r.Account == AllAccounts }

// Window is the resolved, inclusive time range
type Window struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	SubDay bool      `json:"sub_day"`
	Event  string    `json:"event,omitempty"`
}

// Contains reports whether t is inside the window
func (w Window) Contains(t time.Time) bool { return !t.Before(w.Start) && !t.After(w.End) }

// Month outcomes
const (
	MonthFound   = "found"
	MonthSkipped = "not_found"
)

// MonthOutcome reports one fetched month
type MonthOutcome struct {
	Month   string `json:"month" example:"2025-01"`
	Status  string `json:"status" example:"found"`
	Rows    int    `json:"rows" example:"5120"`
	Untimed int    `json:"untimed,omitempty" example:"0"`
}

// MonthSummary reports which months were used
type MonthSummary struct {
	Requested int            `json:"requested" example:"3"`
	Found     int            `json:"found" example:"2"`
	Skipped   int            `json:"skipped" example:"1"`
	Months    []MonthOutcome `json:"months"`
	Text      string         `json:"text" example:"skipped 1 of 3 months"`
}

// Summarize fills the counters and text from Months
func (m *MonthSummary) Summarize() {
	m.Requested, m.Found, m.Skipped = len(m.Months), 0, 0
	for _, o := range m.Months {
		if o.Status == MonthFound {
			m.Found++
		} else {
			m.Skipped++
		}
	}
	m.Text = fmt.Sprintf("skipped %d of %d months", m.Skipped, m.Requested)
}

// Result is the outcome of Run
type Result struct {
	RunID   string       `json:"run_id" example:"6b1f0c1e-0d4e-4d3c-9a8e-3f4c1b2a7d90"`
	Request Request      `json:"request"`
	Window  Window       `json:"window"`
	Months  MonthSummary `json:"months"`
	Status  Status       `json:"status" example:"ok"`
	// Population is the row count of the benchmark table, 0 when not used
	Population int                `json:"population,omitempty" example:"48211"`
	Report     *kpi.Report        `json:"report,omitempty"`
	Rows       []broadcast.Record `json:"rows,omitempty"`
}

// MonthsInput previews the months a window touches
type MonthsInput struct {
	Start   string `query:"start" validate:"required,window_bound" example:"2025-01-15"`
	End     string `query:"end" validate:"required,window_bound" example:"2025-03-10"`
	Feed    string `query:"feed" validate:"omitempty,oneof=all member" example:"all"`
	Account string `query:"account" validate:"omitempty,max=200" example:"room_1234"`
}

// MonthsOutput lists months and their export URLs in fetch order
type MonthsOutput struct {
	Months []string `json:"months" example:"2025-01,2025-02,2025-03"`
	URLs   []string `json:"urls"`
}
