package middlewares

import "net/http"

// Directivas usadas por el router.
const (
	CacheNoStore        = "no-store"
	CachePublicDocument = "public, max-age=300"
)

// WithNoStore marca la respuesta como no cacheable. Se aplica a authorization,
// decision, token, introspection y revocation: todas llevan tickets o credenciales.
func WithNoStore() Middleware {
	return withHeaders(map[string]string{
		"Cache-Control": CacheNoStore,
		"Pragma":        "no-cache",
	})
}

// WithCacheControl fija Cache-Control (jwks y discovery).
func WithCacheControl(directive string) Middleware {
	return withHeaders(map[string]string{"Cache-Control": directive})
}

func withHeaders(h map[string]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range h {
				w.Header().Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}
