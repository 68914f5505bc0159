// Package server arma el handler HTTP con todas sus dependencias y corre el
// servidor con shutdown ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/authzserver/internal/cache"
	"github.com/dropDatabas3/authzserver/internal/config"
	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	authzctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/authorization"
	healthctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/oauth"
	oidcctrl "github.com/dropDatabas3/authzserver/internal/http/controllers/oidc"
	mw "github.com/dropDatabas3/authzserver/internal/http/middlewares"
	"github.com/dropDatabas3/authzserver/internal/http/render"
	"github.com/dropDatabas3/authzserver/internal/http/router"
	authzsvc "github.com/dropDatabas3/authzserver/internal/http/services/authorization"
	healthsvc "github.com/dropDatabas3/authzserver/internal/http/services/health"
	oauthsvc "github.com/dropDatabas3/authzserver/internal/http/services/oauth"
	oidcsvc "github.com/dropDatabas3/authzserver/internal/http/services/oidc"
	"github.com/dropDatabas3/authzserver/internal/metrics"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
	"github.com/dropDatabas3/authzserver/internal/rate"
	"github.com/dropDatabas3/authzserver/internal/security/password"
	tokens "github.com/dropDatabas3/authzserver/internal/security/token"
	"github.com/dropDatabas3/authzserver/internal/session"
)

// App es el servidor armado: handler + recursos a cerrar.
type App struct {
	Handler http.Handler

	closers []func() error
}

// Close libera los recursos en orden inverso de creación.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// backends agrupa lo que depende de cache.kind.
type backends struct {
	sessions     cache.Client
	limiter      rate.Limiter
	decisionRate rate.Limiter
}

// Build crea todas las dependencias a partir de cfg. cfg debe estar validada.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.L().With(logger.Layer("wiring"))
	app := &App{}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	trusted, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fail(fmt.Errorf("server.trusted_proxies: %w", err))
	}

	// 1. Métricas
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		var err error
		if m, err = metrics.New(nil); err != nil {
			return fail(fmt.Errorf("metrics: %w", err))
		}
	}

	// 2. Cache de sesión + rate limiters
	be, err := buildBackends(ctx, cfg, app)
	if err != nil {
		return fail(err)
	}

	if reg := m.Registerer(); reg != nil {
		if err := metrics.RegisterSessionCache(reg, be.sessions); err != nil {
			return fail(fmt.Errorf("metrics: %w", err))
		}
	}

	// 3. Directorio
	dir, err := buildDirectory(ctx, cfg, m)
	if err != nil {
		return fail(err)
	}
	app.closers = append(app.closers, func() error { dir.Close(); return nil })

	// 4. Servicio de decisión
	client := decision.NewHTTPClient(decision.Config{
		BaseURL:   cfg.Decision.BaseURL,
		APIKey:    cfg.Decision.APIKey,
		APISecret: cfg.Decision.APISecret,
		Timeout:   config.Dur(cfg.Decision.Timeout, 10*time.Second),
	}, decision.WithObserver(m.ObserveUpstream))

	// 5. Sesión
	ttl := config.Dur(cfg.Session.TTL, 30*time.Minute)
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		// solo fuera de prod (Validate lo exige ahí): las cookies no
		// sobreviven un reinicio
		tok, err := tokens.GenerateOpaqueToken(32)
		if err != nil {
			return fail(fmt.Errorf("session secret: %w", err))
		}
		secret = []byte(tok)
		log.Warn("session.secret not set, using an ephemeral secret")
	}
	sessions := session.NewManager(be.sessions, ttl)
	cookies := session.NewCookies(session.CookieConfig{
		Name:     cfg.Session.CookieName,
		Secret:   secret,
		TTL:      ttl,
		Secure:   cfg.Session.Secure,
		SameSite: cfg.SameSiteMode(),
	})

	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return fail(fmt.Errorf("render: %w", err))
	}

	// 6. Services → controllers → router
	authz := authzsvc.NewServices(authzsvc.Deps{Client: client, Directory: dir, Metrics: m})
	oauth := oauthsvc.NewServices(oauthsvc.Deps{Relay: client, Directory: dir, Metrics: m})
	oidc := oidcsvc.NewServices(oidcsvc.Deps{Relay: client, TTL: config.Dur(cfg.OIDC.CacheTTL, oidcsvc.DefaultTTL)})
	health := healthsvc.NewServices(healthsvc.Deps{
		Checks: map[string]healthsvc.Pinger{
			"decision":  client,
			"session":   sessions,
			"directory": dir,
		},
		Version: cfg.App.Version,
	})

	app.Handler = router.New(router.Deps{
		Authorization: authzctrl.NewControllers(authzctrl.Deps{
			Services: authz,
			Cookies:  cookies,
			Sessions: sessions,
			Renderer: renderer,
		}),
		OAuth:          oauthctrl.NewControllers(oauth),
		OIDC:           oidcctrl.NewControllers(oidc),
		Health:         healthctrl.NewControllers(health),
		Metrics:        m,
		Limiter:        be.limiter,
		DecisionRate:   be.decisionRate,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		TrustedProxies: trusted,
	})

	log.Info("server wired",
		logger.String("cache", cfg.Cache.Kind),
		logger.String("directory", cfg.Directory.Driver),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
		logger.Bool("metrics", cfg.Metrics.Enabled))
	return app, nil
}

func buildBackends(ctx context.Context, cfg *config.Config, app *App) (backends, error) {
	window := config.Dur(cfg.Rate.Window, time.Minute)
	decisionWindow := config.Dur(cfg.Rate.Decision.Window, time.Minute)
	prefix := cfg.Cache.Redis.Prefix

	c, err := cache.New(ctx, cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   prefix,
	})
	if err != nil {
		return backends{}, err
	}
	app.closers = append(app.closers, c.Close)

	be := backends{sessions: c}
	if !cfg.Rate.Enabled {
		return be, nil
	}
	// con redis, sesiones y rate limit comparten conexión
	if rdb, ok := cache.RedisClient(c); ok {
		be.limiter = rate.NewRedisLimiter(rdb, prefix+":rl:", cfg.Rate.MaxRequests, window)
		be.decisionRate = rate.NewRedisLimiter(rdb, prefix+":rl:decision:", cfg.Rate.Decision.Limit, decisionWindow)
		return be, nil
	}
	be.limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, window)
	be.decisionRate = rate.NewMemoryLimiter(cfg.Rate.Decision.Limit, decisionWindow)
	return be, nil
}

func buildDirectory(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (directory.Directory, error) {
	switch cfg.Directory.Driver {
	case "postgres":
		pg, err := directory.OpenPostgres(ctx, directory.PGConfig{
			DSN:      cfg.Directory.DSN,
			MaxConns: int32(cfg.Directory.Postgres.MaxConns),
			MinConns: int32(cfg.Directory.Postgres.MinConns),
		})
		if err != nil {
			return nil, err
		}
		if reg := m.Registerer(); reg != nil {
			if err := metrics.RegisterPGPool(reg, pg.Pool); err != nil {
				pg.Close()
				return nil, fmt.Errorf("metrics: %w", err)
			}
		}
		return pg, nil
	default:
		seeds := directory.DemoSeeds()
		if cfg.Directory.SeedFile != "" {
			var err error
			if seeds, err = directory.LoadSeedFile(cfg.Directory.SeedFile); err != nil {
				return nil, err
			}
		}
		return directory.NewMemory(password.Default, seeds)
	}
}
