package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	pnet "liverkpi/internal/platform/net"
	phttp "liverkpi/internal/platform/net/http"
)

// RecoverJSON turns a panic into the standard JSON error envelope (code panic)
// and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, env := pnet.Failure(perr.PanicErrf("internal error"), reqID)
			phttp.JSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
