package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/malprimis/petanchiki/pkg/logger"
)

// RequestLogger attaches a request scoped logger to the context and logs one
// line per finished request.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With("request_id", chimw.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqLog.Info("http request", "status", status, "bytes", ww.BytesWritten(), "duration", time.Since(started))
		})
	}
}
