package middlewares

import "net/http"

// WithMaxBody acota el body de cada request. Los handlers que leen el body
// reciben *http.MaxBytesError al pasarse.
func WithMaxBody(n int64) Middleware {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
