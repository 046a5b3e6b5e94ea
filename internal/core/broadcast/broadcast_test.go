package broadcast

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMetricKeys_RoundTrip(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Metrics() {
		k := m.String()
		if k == "" || k == "unknown" {
			t.Fatalf("metric %d has no key", m)
		}
		if seen[k] {
			t.Fatalf("duplicate key %q", k)
		}
		seen[k] = true
		back, ok := ParseMetric(k)
		if !ok || back != m {
			t.Fatalf("ParseMetric(%q) = %v,%v", k, back, ok)
		}
	}
	if _, ok := ParseMetric("nope"); ok {
		t.Fatal("unknown key parsed")
	}
	if Metric(-1).String() != "unknown" || metricCount.String() != "unknown" {
		t.Fatal("out of range metric should be unknown")
	}
}

func TestRecord_MissingVersusZero(t *testing.T) {
	var r Record
	if r.Get(SupportPoints).OK {
		t.Fatal("zero record should have missing cells")
	}
	if r.Sum(SupportPoints) != 0 {
		t.Fatal("missing sums as zero")
	}
	r.Set(SupportPoints, Some(0))
	if !r.Get(SupportPoints).OK {
		t.Fatal("explicit zero must be present")
	}
	r.Set(Metric(99), Some(1))
	if r.Get(Metric(99)).OK {
		t.Fatal("out of range metric stored")
	}
}

func TestRecord_KeyAndJSON(t *testing.T) {
	at := time.Date(2025, 3, 1, 21, 30, 0, 0, time.UTC)
	a := Record{AccountID: "acc", StartedAt: at}
	b := Record{AccountID: "acc", StartedAt: at.In(time.FixedZone("JST", 9*3600))}
	if a.Key() != b.Key() {
		t.Fatal("same instant in different zones must share a key")
	}

	a.Set(Comments, Some(12))
	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, want := range []string{`"account_id":"acc"`, `"comments":12`, `"gifts":null`} {
		if !strings.Contains(s, want) {
			t.Fatalf("json %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "room_id") {
		t.Fatalf("empty room id should be omitted: %s", s)
	}
}

func TestSchema_CoversEveryMetric(t *testing.T) {
	cols := Schema()
	got := map[Metric]int{}
	var started bool
	for _, c := range cols {
		if c.Field == FieldMetric {
			got[c.Metric]++
			if c.Names()[len(c.Names())-1] != c.Metric.String() {
				t.Fatalf("metric column %q lacks english alias", c.Name)
			}
		}
		if c.Field == FieldStartedAt && c.Name == StartedAtHeader {
			started = true
		}
	}
	for _, m := range Metrics() {
		if got[m] != 1 {
			t.Fatalf("metric %s has %d columns", m, got[m])
		}
	}
	if !started {
		t.Fatal("timestamp column missing from schema")
	}

	cols[0].Aliases[0] = "mutated"
	if Schema()[0].Aliases[0] == "mutated" {
		t.Fatal("Schema must return a copy")
	}
}

func TestEvent_ContainsInclusive(t *testing.T) {
	start := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	e := Event{Start: start, End: start.Add(48 * time.Hour)}
	cases := []struct {
		at   time.Time
		want bool
	}{
		{start.Add(-time.Second), false},
		{start, true},
		{start.Add(24 * time.Hour), true},
		{start.Add(48 * time.Hour), true},
		{start.Add(48*time.Hour + time.Nanosecond), false},
	}
	for _, tc := range cases {
		if got := e.Contains(tc.at); got != tc.want {
			t.Fatalf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}
