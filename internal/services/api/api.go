// Package api composes the HTTP API: modules, shared middleware, docs and
// operational endpoints
package api

import (
	"time"

	"liverkpi/internal/platform/config"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	phttp "liverkpi/internal/platform/net/http"
	"liverkpi/internal/platform/net/middleware"
	"liverkpi/internal/platform/store"

	"liverkpi/internal/modkit"
	"liverkpi/internal/modkit/httpkit"
	"liverkpi/internal/modkit/module"
	"liverkpi/internal/modkit/swaggerkit"

	analysisdomain "liverkpi/internal/services/analysis/domain"
	analysismod "liverkpi/internal/services/analysis/module"
	metamod "liverkpi/internal/services/api/meta/module"
	eventsmod "liverkpi/internal/services/events/module"
)

// Options are the API options
type Options struct {
	// Config is the unprefixed root; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Pipeline
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API onto a router that has no routes yet
func Mount(r phttp.Router, opt Options) {
	apiCfg := opt.Config.Prefix("CORE_API_")
	r.Use(middleware.Heartbeat("/ping"))

	log := logger.Named("api")
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.Deps{
		Log:     *log,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
		Store:   opt.Store,
	}

	// events first; analysis consumes its port
	events := eventsmod.New(deps)
	analysis := analysismod.New(deps, modkit.WithPorts(analysismod.Ports{
		Events: module.MustPortsOf[analysisdomain.EventsPort](events),
	}))
	meta := metamod.New(deps, modkit.WithPorts(metamod.Ports{
		Policy: analysis.Service().Policy(),
	}))

	mods := []module.Module{meta, events, analysis}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Observe:     opt.Metrics.ObserveHTTP,
		Slow:        apiCfg.MayDuration("SLOW_REQUEST", 10*time.Second),
		Timeout:     apiCfg.MayDuration("REQUEST_TIMEOUT", 5*time.Minute),
		MaxInFlight: apiCfg.MayInt("MAX_IN_FLIGHT", 0),
		CORS: middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		},
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if apiCfg.MayBool("METRICS", true) {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	log.Info().
		Strs("modules", module.Names()).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
}

