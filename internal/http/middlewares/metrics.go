package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/authzserver/internal/metrics"
)

// WithMetrics instrumenta requests (contador, latencia, inflight).
// La etiqueta de ruta es el patrón de chi, no el path crudo.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := r.Method
			m.InflightInc(method)
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				m.InflightDec(method)
				route := "unmatched"
				if rc := chi.RouteContext(r.Context()); rc != nil {
					if p := rc.RoutePattern(); p != "" {
						route = p
					}
				}
				m.ObserveHTTP(method, route, rec.status, time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
