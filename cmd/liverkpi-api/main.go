// @title         liverkpi API
// @version       1.0
// @description   Monthly broadcaster exports in, KPI reports out

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"liverkpi/internal/platform/config"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	phttp "liverkpi/internal/platform/net/http"
	"liverkpi/internal/platform/store"

	"liverkpi/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// byte cache for the events table (CORE_CACHE_*)
	st, err := store.Open(ctx, store.FromConfig(root.Prefix("CORE_CACHE_")), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Metrics:        metrics.Default(),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
