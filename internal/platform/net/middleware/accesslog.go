package middleware

import (
	"net/http"
	"time"

	"liverkpi/internal/platform/logger"
	pnet "liverkpi/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

// Observer receives one call per finished request; route is the chi pattern
type Observer func(method, route string, status int, elapsed time.Duration)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking >= Slow at warn level; 0 disables
	Slow time.Duration
	// Observe, when set, is called after the log line (metrics hook)
	Observe Observer
}

type captureWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	cw.bytes += n
	return n, err
}

// AccessLogZerolog copies the request id into the logger context for
// downstream logger.C calls, then logs one line per request
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))
			r = r.WithContext(ctx)
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(cw, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			log := logger.C(ctx)
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Int("status", cw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("route", route).
				Int("bytes", cw.bytes).
				Msg("request done")

			if opt.Observe != nil {
				opt.Observe(r.Method, route, cw.status, elapsed)
			}
		})
	}
}
