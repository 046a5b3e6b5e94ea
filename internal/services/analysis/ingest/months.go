// Package ingest adapts the showroom fetcher and the row normalizer to the
// analysis MonthSource port
package ingest

import (
	"context"
	"time"

	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/normalize"
	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	"liverkpi/internal/services/analysis/domain"
)

// Months implements domain.MonthSource
type Months struct {
	fetch   showroom.Fetcher
	feeds   showroom.Config
	loc     *time.Location
	all     *normalize.Decoder
	metrics *metrics.Pipeline
}

var _ domain.MonthSource = (*Months)(nil)

// NewMonths wires a fetcher to the decoder; loc is the zone of export timestamps
func NewMonths(f showroom.Fetcher, feeds showroom.Config, loc *time.Location, m *metrics.Pipeline) *Months {
	return &Months{
		fetch:   f,
		feeds:   feeds,
		loc:     loc,
		all:     normalize.NewDecoder(normalize.Options{Location: loc}),
		metrics: m,
	}
}

// Source returns the export location of month m
func (s *Months) Source(kind showroom.Kind, account string, m showroom.MonthRef) (showroom.Source, error) {
	return s.feeds.Feed(kind).Month(m, account)
}

// Load fetches and decodes one month
func (s *Months) Load(ctx context.Context, kind showroom.Kind, account string, m showroom.MonthRef) (normalize.Table, error) {
	src, err := s.Source(kind, account, m)
	if err != nil {
		return normalize.Table{}, err
	}
	rc, err := s.fetch.Fetch(ctx, src)
	if err != nil {
		return normalize.Table{}, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			logger.C(ctx).Warn().Err(cerr).Str("month", m.String()).Msg("close export body")
		}
	}()

	dec := s.all
	if kind == showroom.FeedMember {
		// the member export has no account column
		dec = normalize.NewDecoder(normalize.Options{Location: s.loc, DefaultAccount: account})
	}
	t, err := dec.DecodeTable(rc)
	if err != nil {
		return normalize.Table{}, perr.Wrapf(err, perr.CodeOf(err), "month %s", m)
	}
	s.metrics.AddRows(src.Label, len(t.Records))
	return t, nil
}
