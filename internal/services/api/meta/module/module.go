// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"liverkpi/internal/core/rulepack"
	modkit "liverkpi/internal/modkit"
	"liverkpi/internal/modkit/httpkit"
	str "liverkpi/internal/platform/strings"

	metahttp "liverkpi/internal/services/api/meta/http"
)

// Ports lets the composition root hand the effective policy to meta
type Ports struct {
	Policy *rulepack.Policy
}

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{b: b, startedAt: time.Now()}
	m.deps = metahttp.Deps{
		ServiceName: "liverkpi-api",
		StartedAt:   m.startedAt,
	}
	if deps.Store != nil {
		m.deps.Checks = append(m.deps.Checks, metahttp.Check{Name: "cache", Pinger: metahttp.PingFunc(deps.Store.Guard)})
	} else {
		m.deps.Checks = append(m.deps.Checks, metahttp.Check{Name: "cache"})
	}
	if p, ok := b.Ports.(Ports); ok {
		m.deps.Policy = p.Policy
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
