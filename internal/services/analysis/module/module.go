// Package module wires the analysis pipeline into the API using modkit
package module

import (
	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/rulepack"
	modkit "liverkpi/internal/modkit"
	"liverkpi/internal/modkit/httpkit"
	str "liverkpi/internal/platform/strings"
	"liverkpi/internal/services/analysis/domain"
	"liverkpi/internal/services/analysis/guardrails"
	analysishttp "liverkpi/internal/services/analysis/http"
	"liverkpi/internal/services/analysis/ingest"
	analysissvc "liverkpi/internal/services/analysis/service"
)

// Ports are the ports this module consumes, injected with modkit.WithPorts
type Ports struct {
	Events domain.EventsPort
}

// Module implements the analysis module
type Module struct {
	b   modkit.Built
	svc *analysissvc.Svc
}

// New constructs the analysis module. It reads CORE_ANALYSIS_, CORE_FEED_
// and CORE_KPI_ from deps.Cfg and panics on an invalid rule pack.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analysis"),
		modkit.WithPrefix("/analysis"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)
	feeds := showroom.FromConfig(deps.Cfg.Prefix("CORE_FEED_"))
	policy, err := rulepack.FromConfig(deps.Cfg.Prefix("CORE_KPI_"))
	if err != nil {
		deps.Log.Panic().Err(err).Msg("analysis: invalid rule pack")
	}

	var events domain.EventsPort
	if p, ok := b.Ports.(Ports); ok {
		events = p.Events
	}

	months := ingest.NewMonths(showroom.NewHTTPFetcher(feeds, deps.Metrics), feeds, o.Location, deps.Metrics)
	svc := analysissvc.New(analysissvc.Config{
		Workers:   o.Workers,
		Timeouts:  guardrails.Timeouts{Request: o.RequestTimeout, Month: o.MonthTimeout},
		Location:  o.Location,
		MinYear:   o.MinYear,
		MaxMonths: o.MaxMonths,
		Policy:    policy,
	}, months, events, deps.Metrics)

	return &Module{b: b, svc: svc}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { analysishttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Ports returns the service port for other modules
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

// Service exposes the concrete service for the report command and meta
func (m *Module) Service() *analysissvc.Svc { return m.svc }
