// Package router arma el árbol de rutas HTTP del servidor.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authzctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/authorization"
	healthctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/oauth"
	oidcctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/oidc"
	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
	mw "github.com/dropDatabas3/authzserver/internal/http/middlewares"
	"github.com/dropDatabas3/authzserver/internal/metrics"
	"github.com/dropDatabas3/authzserver/internal/rate"
)

// Deps contiene todo lo que el router necesita.
type Deps struct {
	Authorization *authzctrl.Controllers
	OAuth         *oauthctrl.Controllers
	OIDC          *oidcctrl.Controllers
	Health        *healthctrl.Controllers

	Metrics      *metrics.Metrics // nil: sin /metrics ni instrumentación
	Limiter      rate.Limiter     // opcional: límite global por IP+path
	DecisionRate rate.Limiter     // opcional: límite propio de /authorization/decision
	MaxBodyBytes int64
	// TrustedProxies: peers cuyo X-Forwarded-For se acepta para la IP del cliente.
	TrustedProxies mw.TrustedProxies
}

// New devuelve el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithMetrics(d.Metrics),
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	RegisterHealthRoutes(r, d.Health)
	RegisterAuthorizationRoutes(r, d)
	RegisterOAuthRoutes(r, d)
	RegisterOIDCRoutes(r, d.OIDC)

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	return r
}

// RegisterHealthRoutes registra /healthz y /readyz.
func RegisterHealthRoutes(r chi.Router, c *healthctrl.Controllers) {
	if c == nil {
		return
	}
	r.Get("/healthz", c.Health.Live)
	r.Get("/readyz", c.Health.Ready)
}

// RegisterAuthorizationRoutes registra el endpoint interactivo y el de decisión.
func RegisterAuthorizationRoutes(r chi.Router, d Deps) {
	c := d.Authorization
	if c == nil {
		return
	}

	authorize := protocolHandler(d, d.Limiter, http.HandlerFunc(c.Authorization.Authorize))
	r.Method(http.MethodGet, "/authorization", authorize)
	r.Method(http.MethodPost, "/authorization", authorize)

	// decision tiene su propio limiter: es donde se prueban passwords
	limiter := d.DecisionRate
	if limiter == nil {
		limiter = d.Limiter
	}
	r.Method(http.MethodPost, "/authorization/decision", protocolHandler(d, limiter, http.HandlerFunc(c.Decision.Decide)))
}

// RegisterOAuthRoutes registra los relays de token, introspección y revocación.
func RegisterOAuthRoutes(r chi.Router, d Deps) {
	c := d.OAuth
	if c == nil {
		return
	}
	r.Method(http.MethodPost, "/token", protocolHandler(d, d.Limiter, http.HandlerFunc(c.Token.Token)))
	r.Method(http.MethodPost, "/introspection", protocolHandler(d, d.Limiter, http.HandlerFunc(c.Introspect.Introspect)))
	r.Method(http.MethodPost, "/revocation", protocolHandler(d, d.Limiter, http.HandlerFunc(c.Revoke.Revoke)))
}

// RegisterOIDCRoutes registra JWKS y discovery (públicos, cacheables).
func RegisterOIDCRoutes(r chi.Router, c *oidcctrl.Controllers) {
	if c == nil {
		return
	}
	r.Method(http.MethodGet, "/jwks", oidcPublicHandler(http.HandlerFunc(c.JWKS.Get)))
	r.Method(http.MethodGet, "/.well-known/openid-configuration", oidcPublicHandler(http.HandlerFunc(c.Discovery.Get)))
}

// protocolHandler arma el chain de los endpoints de protocolo: no-store,
// límite de body y rate limit por IP+path.
func protocolHandler(d Deps, limiter rate.Limiter, h http.Handler) http.Handler {
	chain := []mw.Middleware{mw.WithNoStore()}
	if d.MaxBodyBytes > 0 {
		chain = append(chain, mw.WithMaxBody(d.MaxBodyBytes))
	}
	if limiter != nil {
		chain = append(chain, mw.WithRateLimit(mw.RateLimitConfig{
			Limiter: limiter,
			KeyFunc: mw.IPPathRateKey,
		}))
	}
	return mw.Chain(h, chain...)
}

func oidcPublicHandler(h http.Handler) http.Handler {
	return mw.Chain(h, mw.WithCacheControl(mw.CachePublicDocument))
}
