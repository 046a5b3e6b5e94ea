// Package service loads the event-entry table and annotates broadcasts with it
package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/normalize"
	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/services/events/domain"
)

// Label is the fetch metric label of the event table
const Label = "events"

// Config holds the table location
type Config struct {
	URL      string // empty disables events
	Encoding string
	Location *time.Location
}

// Svc implements domain.ServicePort
type Svc struct {
	cfg   Config
	fetch showroom.Fetcher
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs the service; f is usually a showroom.CachedFetcher
func New(cfg Config, f showroom.Fetcher) *Svc {
	if f == nil {
		panic("events.Service requires a non nil Fetcher")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Svc{cfg: cfg, fetch: f}
}

// Enabled reports whether an event table is configured
func (s *Svc) Enabled() bool { return s.cfg.URL != "" }

// Linked returns every linked event of the table
func (s *Svc) Linked(ctx context.Context) ([]broadcast.Event, error) {
	if !s.Enabled() {
		return nil, nil
	}
	rc, err := s.fetch.Fetch(ctx, showroom.Source{URL: s.cfg.URL, Label: Label, Encoding: s.cfg.Encoding})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			logger.C(ctx).Warn().Err(cerr).Msg("events: close body")
		}
	}()

	all, err := normalize.DecodeEvents(rc, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	out := slices.DeleteFunc(all, func(e broadcast.Event) bool { return !e.Linked })
	slices.SortStableFunc(out, func(a, b broadcast.Event) int { return a.Start.Compare(b.Start) })
	logger.C(ctx).Debug().Int("total", len(all)).Int("linked", len(out)).Msg("events loaded")
	return out, nil
}

// ForAccount returns the linked events of account
func (s *Svc) ForAccount(ctx context.Context, account string) ([]broadcast.Event, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, perr.WithField(perr.InvalidArgf("account is required"), "account")
	}
	all, err := s.Linked(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]broadcast.Event, 0, len(all))
	for _, e := range all {
		if e.AccountID == account {
			out = append(out, e)
		}
	}
	return out, nil
}

// Find returns the event called name for account
func (s *Svc) Find(ctx context.Context, account, name string) (broadcast.Event, error) {
	evs, err := s.ForAccount(ctx, account)
	if err != nil {
		return broadcast.Event{}, err
	}
	name = strings.TrimSpace(name)
	for _, e := range evs {
		if e.Name == name {
			return e, nil
		}
	}
	return broadcast.Event{}, perr.WithField(perr.NotFoundf("event %q not found for %s", name, account), "event")
}

// Annotate sets EventName on every record inside a linked window of the same
// account. The earliest starting event wins on overlap; records already named keep it.
func Annotate(records []broadcast.Record, events []broadcast.Event) int {
	if len(events) == 0 {
		return 0
	}
	byAccount := map[string][]broadcast.Event{}
	for _, e := range events {
		if e.Linked {
			byAccount[e.AccountID] = append(byAccount[e.AccountID], e)
		}
	}
	for _, evs := range byAccount {
		slices.SortStableFunc(evs, func(a, b broadcast.Event) int { return a.Start.Compare(b.Start) })
	}

	n := 0
	for i := range records {
		r := &records[i]
		if r.EventName != "" {
			continue
		}
		for _, e := range byAccount[r.AccountID] {
			if e.Contains(r.StartedAt) {
				r.EventName = e.Name
				n++
				break
			}
		}
	}
	return n
}
