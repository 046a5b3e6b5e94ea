package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"liverkpi/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack; zero value is usable
type StackOptions struct {
	// Observe receives every finished request (metrics hook)
	Observe middleware.Observer
	// Slow marks requests slower than this as warnings in the access log
	Slow time.Duration
	// Timeout bounds each request; zero means 5m
	Timeout time.Duration
	// MaxInFlight caps concurrent requests; zero disables the cap
	MaxInFlight int
	CORS        middleware.CORSOptions
}

// CommonStack returns the baseline API middleware slice
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,
		middleware.Throttle(o.MaxInFlight),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow, Observe: o.Observe}),

		middleware.NoCache(),
		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
}
