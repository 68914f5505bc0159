package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/http/errors"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// WithRecover convierte un panic del handler en 500 JSON.
// http.ErrAbortHandler se re-lanza para que net/http corte la conexión.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.From(r.Context()).Error("panic recovered",
					logger.Op("WithRecover"),
					logger.RequestID(GetRequestID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Any("panic", rec),
				)
				w.Header().Set("Cache-Control", CacheNoStore)
				errors.WriteError(w, errors.ErrInternalServerError.WithDetail("panic recovered"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
