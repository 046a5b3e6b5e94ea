package service

import (
	"context"
	"testing"
	"time"

	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/broadcast"
	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/store/mem"
	"liverkpi/internal/platform/testkit"
)

var jst = time.FixedZone("JST", 9*3600)

const table = "アカウントID,イベント名,開始日時,終了日時,紐付け\n" +
	"acc1,Summer Cup,2025/07/10 12:00,2025/07/20 22:59,1\n" +
	"acc1,Spring Cup,2025/04/01 12:00,2025/04/07 22:59,1\n" +
	"acc1,Draft,2025/05/01,2025/05/02,0\n" +
	"acc2,Spring Cup,2025/04/01 12:00,2025/04/07 22:59,1\n"

func newSvc(t *testing.T) (*Svc, *testkit.FeedServer) {
	t.Helper()
	srv := testkit.NewFeedServer(t, map[string]testkit.Reply{"/events.csv": {Body: []byte(table)}})
	f := showroom.NewCachedFetcher(showroom.NewHTTPFetcher(showroom.Config{}, nil), mem.New(mem.Config{}))
	return New(Config{URL: srv.URL + "/events.csv", Location: jst}, f), srv
}

func TestForAccount_LinkedOnlySortedAndCached(t *testing.T) {
	s, srv := newSvc(t)
	ctx := context.Background()

	evs, err := s.ForAccount(ctx, "acc1")
	if err != nil {
		t.Fatalf("ForAccount: %v", err)
	}
	if len(evs) != 2 || evs[0].Name != "Spring Cup" || evs[1].Name != "Summer Cup" {
		t.Fatalf("events = %+v", evs)
	}
	if _, err := s.ForAccount(ctx, "acc2"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if h := srv.Hits("/events.csv"); h != 1 {
		t.Fatalf("table fetched %d times", h)
	}
	if _, err := s.ForAccount(ctx, " "); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("blank account: %v", err)
	}
}

func TestFind(t *testing.T) {
	s, _ := newSvc(t)
	ctx := context.Background()

	e, err := s.Find(ctx, "acc1", " Summer Cup ")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !e.Start.Equal(time.Date(2025, 7, 10, 12, 0, 0, 0, jst)) {
		t.Fatalf("start = %v", e.Start)
	}
	if _, err := s.Find(ctx, "acc1", "Draft"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unlinked event should be not found: %v", err)
	}
	if _, err := s.Find(ctx, "acc2", "Summer Cup"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("other account: %v", err)
	}
}

func TestDisabled(t *testing.T) {
	s := New(Config{}, showroom.NewHTTPFetcher(showroom.Config{}, nil))
	if s.Enabled() {
		t.Fatal("empty url should disable events")
	}
	evs, err := s.ForAccount(context.Background(), "acc1")
	if err != nil || len(evs) != 0 {
		t.Fatalf("disabled = %v, %v", evs, err)
	}
}

func TestAnnotate(t *testing.T) {
	at := func(d, h int) time.Time { return time.Date(2025, 4, d, h, 0, 0, 0, jst) }
	evs := []broadcast.Event{
		{AccountID: "acc1", Name: "Late", Start: at(3, 0), End: at(9, 0), Linked: true},
		{AccountID: "acc1", Name: "Early", Start: at(1, 12), End: at(4, 0), Linked: true},
		{AccountID: "acc1", Name: "Off", Start: at(20, 0), End: at(25, 0), Linked: false},
	}
	recs := []broadcast.Record{
		{AccountID: "acc1", StartedAt: at(1, 11)},
		{AccountID: "acc1", StartedAt: at(1, 12)},
		{AccountID: "acc1", StartedAt: at(3, 12)},
		{AccountID: "acc1", StartedAt: at(8, 0)},
		{AccountID: "acc2", StartedAt: at(3, 12)},
		{AccountID: "acc1", StartedAt: at(21, 0)},
		{AccountID: "acc1", StartedAt: at(5, 0), EventName: "Manual"},
	}

	n := Annotate(recs, evs)
	want := []string{"", "Early", "Early", "Late", "", "", "Manual"}
	for i, w := range want {
		if recs[i].EventName != w {
			t.Fatalf("record %d event = %q, want %q", i, recs[i].EventName, w)
		}
	}
	if n != 3 {
		t.Fatalf("annotated = %d", n)
	}
	if Annotate(recs, nil) != 0 {
		t.Fatal("no events should annotate nothing")
	}
}
