// Package service runs one analysis: month fetches, assembly, event
// annotation and the KPI report
package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/kpi"
	"liverkpi/internal/core/normalize"
	"liverkpi/internal/core/rulepack"
	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	str "liverkpi/internal/platform/strings"
	ptime "liverkpi/internal/platform/time"
	"liverkpi/internal/services/analysis/domain"
	"liverkpi/internal/services/analysis/guardrails"
	eventssvc "liverkpi/internal/services/events/service"
)

// Config holds the analysis settings
type Config struct {
	// Workers is the number of concurrent month fetches; <=0 -> 1
	Workers int
	// Timeouts applied via guardrails
	Timeouts guardrails.Timeouts
	// Location is the zone of request bounds and export timestamps; nil -> UTC
	Location *time.Location
	// MinYear is the first year with published exports; 0 -> 2023
	MinYear int
	// MaxMonths caps the window; 0 = unlimited
	MaxMonths int
	// Policy holds hit rules and insight thresholds; nil -> embedded defaults
	Policy *rulepack.Policy
}

// Svc implements domain.ServicePort
type Svc struct {
	cfg     Config
	months  domain.MonthSource
	events  domain.EventsPort
	metrics *metrics.Pipeline
	clock   ptime.Clock
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs the service; events and m may be nil
func New(cfg Config, months domain.MonthSource, events domain.EventsPort, m *metrics.Pipeline) *Svc {
	if months == nil {
		panic("analysis.Service requires a non nil MonthSource")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MinYear == 0 {
		cfg.MinYear = 2023
	}
	if cfg.Policy == nil {
		cfg.Policy = rulepack.MustLoad()
	}
	return &Svc{cfg: cfg, months: months, events: events, metrics: m, clock: ptime.System}
}

// WithClock swaps the clock used for the year range check
func (s *Svc) WithClock(c ptime.Clock) *Svc {
	s.clock = c
	return s
}

// Policy returns the effective hit policy
func (s *Svc) Policy() *rulepack.Policy { return s.cfg.Policy }

// Months lists the exports a window touches without fetching them
func (s *Svc) Months(_ context.Context, in domain.MonthsInput) (domain.MonthsOutput, error) {
	p, err := s.validate(domain.Request{Account: str.FirstNonEmpty(in.Account, domain.AllAccounts), Start: in.Start, End: in.End, Feed: in.Feed})
	if err != nil {
		return domain.MonthsOutput{}, err
	}
	out := domain.MonthsOutput{Months: make([]string, 0, len(p.months)), URLs: make([]string, 0, len(p.months))}
	for _, m := range p.months {
		src, err := s.months.Source(p.kind, p.req.Account, m)
		if err != nil {
			return domain.MonthsOutput{}, err
		}
		out.Months = append(out.Months, m.String())
		out.URLs = append(out.URLs, src.URL)
	}
	return out, nil
}

// Run executes one analysis. Validation errors are returned before any fetch.
// A window with no published month is NoData; a window whose months hold no
// matching row is a StatusEmpty result.
func (s *Svc) Run(ctx context.Context, req domain.Request) (domain.Result, error) {
	mode := modeOf(req)
	p, err := s.validate(req)
	if err != nil {
		s.metrics.ObserveAnalysis(mode, metrics.AnalysisInvalid)
		return domain.Result{}, err
	}

	res := domain.Result{RunID: uuid.NewString(), Request: p.req}
	ctx = logger.WithRun(ctx, res.RunID, p.req.Account)
	ctx, cancel := guardrails.WithRequest(ctx, s.cfg.Timeouts)
	defer cancel()
	log := logger.C(ctx)

	if p.req.Event != "" {
		ev, err := s.events.Find(ctx, p.req.Account, p.req.Event)
		if err != nil {
			s.metrics.ObserveAnalysis(mode, outcomeOf(err))
			return domain.Result{}, err
		}
		if err := s.setWindow(&p, domain.Window{Start: ev.Start, End: ev.End, SubDay: true, Event: ev.Name}); err != nil {
			s.metrics.ObserveAnalysis(mode, metrics.AnalysisInvalid)
			return domain.Result{}, err
		}
	}
	res.Window = p.window

	start := time.Now()
	tables, months, err := s.fetchMonths(ctx, p)
	res.Months = months
	if err != nil {
		s.metrics.ObserveAnalysis(mode, outcomeOf(err))
		log.Error().Err(err).Msg("analysis: month fetch failed")
		return domain.Result{}, err
	}
	if months.Found == 0 {
		s.metrics.ObserveAnalysis(mode, metrics.AnalysisNoData)
		return domain.Result{}, perr.NoDataf("no export published for %s (%s)", monthSpan(p.months), months.Text)
	}

	population := Assemble(tables, p.window)
	selection := population
	if !p.req.Aggregate() {
		selection = ForAccount(population, p.req.Account)
	}
	s.annotate(ctx, selection)

	log.Info().
		Int("months", months.Requested).
		Int("skipped", months.Skipped).
		Int("population", len(population)).
		Int("rows", len(selection)).
		Dur("elapsed", time.Since(start)).
		Msg("analysis assembled")

	if len(selection) == 0 {
		res.Status = domain.StatusEmpty
		s.metrics.ObserveAnalysis(mode, metrics.AnalysisEmpty)
		return res, nil
	}

	in := kpi.Input{Rows: selection, Aggregate: p.req.Aggregate(), Policy: s.cfg.Policy}
	if p.req.Benchmark && !p.req.Aggregate() && p.kind == showroom.FeedAll {
		in.Population = population
		res.Population = len(population)
	}
	rep := kpi.Compute(in)
	res.Report = &rep
	res.Status = domain.StatusOK
	if p.req.IncludeRows {
		res.Rows = selection
	}
	s.metrics.ObserveAnalysis(mode, metrics.AnalysisOK)
	return res, nil
}

// fetchMonths loads every month with a bounded pool; results keep month order
func (s *Svc) fetchMonths(ctx context.Context, p plan) ([]normalize.Table, domain.MonthSummary, error) {
	tables := make([]normalize.Table, len(p.months))
	outcomes := make([]domain.MonthOutcome, len(p.months))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for i, m := range p.months {
		g.Go(func() error {
			mctx, cancel := guardrails.ForMonth(gctx, s.cfg.Timeouts)
			defer cancel()

			t, err := s.months.Load(mctx, p.kind, p.req.Account, m)
			switch {
			case errors.Is(err, showroom.ErrNotFound):
				outcomes[i] = domain.MonthOutcome{Month: m.String(), Status: domain.MonthSkipped}
				logger.C(ctx).Debug().Str("month", m.String()).Msg("month not published, skipped")
				return nil
			case err != nil:
				return err
			}
			tables[i] = t
			outcomes[i] = domain.MonthOutcome{Month: m.String(), Status: domain.MonthFound, Rows: len(t.Records), Untimed: t.Skipped}
			return nil
		})
	}
	err := g.Wait()

	sum := domain.MonthSummary{Months: outcomes}
	if err != nil {
		sum.Months = slices.DeleteFunc(outcomes, func(o domain.MonthOutcome) bool { return o.Month == "" })
	}
	sum.Summarize()
	return tables, sum, err
}

// annotate tags records with linked events; failures only cost the tags
func (s *Svc) annotate(ctx context.Context, rows []broadcast.Record) {
	if s.events == nil || len(rows) == 0 {
		return
	}
	evs, err := s.events.Linked(ctx)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("analysis: event table unavailable, rows stay untagged")
		return
	}
	n := eventssvc.Annotate(rows, evs)
	logger.C(ctx).Debug().Int("tagged", n).Msg("rows tagged with events")
}

func modeOf(req domain.Request) string {
	if req.Aggregate() {
		return "all"
	}
	return "account"
}

func outcomeOf(err error) string {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeInvalidArgument, perr.ErrorCodeValidation, perr.ErrorCodeNotFound:
		return metrics.AnalysisInvalid
	case perr.ErrorCodeNoData:
		return metrics.AnalysisNoData
	}
	return metrics.AnalysisFailed
}

func monthSpan(ms []showroom.MonthRef) string {
	if len(ms) == 0 {
		return "no months"
	}
	if len(ms) == 1 {
		return ms[0].String()
	}
	return ms[0].String() + ".." + ms[len(ms)-1].String()
}
