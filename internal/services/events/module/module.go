// Package module wires the events service into the API using modkit
package module

import (
	"liverkpi/internal/adapters/ingest/showroom"
	modkit "liverkpi/internal/modkit"
	"liverkpi/internal/modkit/httpkit"
	str "liverkpi/internal/platform/strings"
	"liverkpi/internal/services/events/domain"
	eventshttp "liverkpi/internal/services/events/http"
	eventssvc "liverkpi/internal/services/events/service"
)

// Ports is what other modules may consume
type Ports struct {
	Events domain.ServicePort
}

// Module implements the events module
type Module struct {
	b     modkit.Built
	svc   *eventssvc.Svc
	ports Ports
}

// New constructs the events module. The table is fetched through a cache
// over the shared store; feed timeouts come from CORE_FEED_.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("events"),
		modkit.WithPrefix("/events"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)
	feed := showroom.FromConfig(deps.Cfg.Prefix("CORE_FEED_"))
	fetch := showroom.NewCachedFetcher(
		showroom.NewHTTPFetcher(feed, deps.Metrics),
		deps.Cache(),
		showroom.WithTTL(o.TTL),
		showroom.WithMetrics(deps.Metrics),
	)
	svc := eventssvc.New(eventssvc.Config{URL: o.URL, Encoding: o.Encoding, Location: o.Location}, fetch)

	return &Module{b: b, svc: svc, ports: Ports{Events: svc}}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { eventshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for composition roots
func (m *Module) Service() *eventssvc.Svc { return m.svc }
