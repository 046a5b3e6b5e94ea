package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/normalize"
	perr "liverkpi/internal/platform/errors"
	ptime "liverkpi/internal/platform/time"
	"liverkpi/internal/services/analysis/domain"
)

func rec(acct string, at time.Time, support float64) broadcast.Record {
	r := broadcast.Record{AccountID: acct, StartedAt: at}
	r.Set(broadcast.SupportPoints, broadcast.Some(support))
	return r
}

func TestAssemble_DedupeSortFilter(t *testing.T) {
	at := func(d, h int) time.Time { return time.Date(2025, 1, d, h, 0, 0, 0, jst) }
	tables := []normalize.Table{
		{Records: []broadcast.Record{rec("a", at(20, 21), 1), rec("a", at(3, 10), 2), rec("b", at(20, 21), 3)}},
		{Records: []broadcast.Record{rec("a", at(20, 21), 99), rec("a", at(25, 8), 4), rec("a", at(31, 23), 5)}},
	}
	w := domain.Window{Start: at(3, 10), End: at(25, 8)}

	got := Assemble(tables, w)
	if len(got) != 4 {
		t.Fatalf("rows = %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartedAt.Before(got[i-1].StartedAt) {
			t.Fatalf("rows not sorted at %d", i)
		}
	}
	if got[0].Sum(broadcast.SupportPoints) != 2 || got[1].Sum(broadcast.SupportPoints) != 1 {
		t.Fatalf("first occurrence must win: %v %v", got[0], got[1])
	}
	if a := ForAccount(got, "a"); len(a) != 3 {
		t.Fatalf("account a rows = %d", len(a))
	}
}

// fakeMonths serves tables from memory; delay lets later months finish first
type fakeMonths struct {
	tables map[string]normalize.Table
	delay  map[string]time.Duration

	mu    sync.Mutex
	calls []string
}

func (f *fakeMonths) Source(_ showroom.Kind, _ string, m showroom.MonthRef) (showroom.Source, error) {
	return showroom.Source{URL: "mem://" + m.String(), Label: "all", Month: m}, nil
}

func (f *fakeMonths) Load(ctx context.Context, _ showroom.Kind, _ string, m showroom.MonthRef) (normalize.Table, error) {
	f.mu.Lock()
	f.calls = append(f.calls, m.String())
	f.mu.Unlock()
	select {
	case <-time.After(f.delay[m.String()]):
	case <-ctx.Done():
		return normalize.Table{}, ctx.Err()
	}
	t, ok := f.tables[m.String()]
	if !ok {
		return normalize.Table{}, perr.Wrapf(showroom.ErrNotFound, perr.ErrorCodeNotFound, "%s", m)
	}
	return t, nil
}

func TestRun_ParallelFetchKeepsMonthOrder(t *testing.T) {
	dup := time.Date(2025, 1, 31, 23, 0, 0, 0, jst)
	src := &fakeMonths{
		tables: map[string]normalize.Table{
			"2025-01": {Records: []broadcast.Record{rec("a", dup, 1)}},
			"2025-02": {Records: []broadcast.Record{rec("a", dup, 2), rec("a", dup.AddDate(0, 0, 5), 3)}},
		},
		delay: map[string]time.Duration{"2025-01": 60 * time.Millisecond},
	}
	svc := New(Config{Workers: 3, Location: jst}, src, nil, nil).
		WithClock(ptime.Fixed(time.Date(2025, 6, 1, 0, 0, 0, 0, jst)))

	res, err := svc.Run(context.Background(), domain.Request{Account: "a", Start: "2025-01-01", End: "2025-03-31", IncludeRows: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(src.calls) != 3 {
		t.Fatalf("calls = %v", src.calls)
	}
	if got := res.Months.Months; got[0].Month != "2025-01" || got[1].Month != "2025-02" || got[2].Status != domain.MonthSkipped {
		t.Fatalf("month order = %+v", got)
	}
	if len(res.Rows) != 2 || res.Rows[0].Sum(broadcast.SupportPoints) != 1 {
		t.Fatalf("earlier month must win the duplicate: %+v", res.Rows)
	}
}

func TestRun_MonthTimeout(t *testing.T) {
	src := &fakeMonths{
		tables: map[string]normalize.Table{"2025-01": {}},
		delay:  map[string]time.Duration{"2025-01": time.Second},
	}
	svc := New(Config{Location: jst}, src, nil, nil)
	svc.cfg.Timeouts.Month = 20 * time.Millisecond
	svc.WithClock(ptime.Fixed(time.Date(2025, 6, 1, 0, 0, 0, 0, jst)))

	start := time.Now()
	if _, err := svc.Run(context.Background(), domain.Request{Account: "a", Start: "2025-01-01", End: "2025-01-31"}); err == nil {
		t.Fatal("expected a timeout")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("month budget ignored")
	}
}

type fakeEvents struct {
	events []broadcast.Event
}

func (f fakeEvents) Linked(context.Context) ([]broadcast.Event, error) { return f.events, nil }

func (f fakeEvents) Find(_ context.Context, account, name string) (broadcast.Event, error) {
	for _, e := range f.events {
		if e.AccountID == account && e.Name == name {
			return e, nil
		}
	}
	return broadcast.Event{}, perr.NotFoundf("event %q", name)
}

func TestRun_EventSelectionAndTags(t *testing.T) {
	cup := broadcast.Event{
		AccountID: "a", Name: "Cup", Linked: true,
		Start: time.Date(2025, 2, 27, 12, 0, 0, 0, jst),
		End:   time.Date(2025, 3, 2, 22, 59, 0, 0, jst),
	}
	src := &fakeMonths{tables: map[string]normalize.Table{
		"2025-02": {Records: []broadcast.Record{
			rec("a", time.Date(2025, 2, 27, 11, 0, 0, 0, jst), 1),
			rec("a", time.Date(2025, 2, 28, 20, 0, 0, 0, jst), 2),
		}},
		"2025-03": {Records: []broadcast.Record{rec("a", time.Date(2025, 3, 2, 22, 0, 0, 0, jst), 3)}},
	}}
	svc := New(Config{Location: jst}, src, fakeEvents{events: []broadcast.Event{cup}}, nil).
		WithClock(ptime.Fixed(time.Date(2025, 6, 1, 0, 0, 0, 0, jst)))

	res, err := svc.Run(context.Background(), domain.Request{Account: "a", Event: "Cup", IncludeRows: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Window.Event != "Cup" || !res.Window.Start.Equal(cup.Start) || res.Months.Requested != 2 {
		t.Fatalf("window = %+v months = %+v", res.Window, res.Months)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	for _, r := range res.Rows {
		if r.EventName != "Cup" {
			t.Fatalf("row %v not tagged", r.StartedAt)
		}
	}

	_, err = svc.Run(context.Background(), domain.Request{Account: "a", Event: "Nope"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown event: %v", err)
	}
}
