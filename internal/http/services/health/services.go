// Package health contiene los services de health check.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	dto "github.com/dropDatabas3/authzserver/internal/http/dto/health"
)

// Pinger es cualquier dependencia que sepa responder un health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapta una función a Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps contiene las dependencias de los services health.
type Deps struct {
	Checks  map[string]Pinger // componente -> check
	Timeout time.Duration     // por check, default 2s
	Version string
	Now     func() time.Time
}

// Services agrupa todos los services del dominio health.
type Services struct {
	Health HealthService
}

func NewServices(d Deps) Services {
	return Services{
		Health: NewHealthService(d),
	}
}

// HealthService responde liveness y readiness.
type HealthService interface {
	Live(ctx context.Context) dto.HealthResponse
	// Ready corre todos los checks en paralelo. ok=false si alguno falla.
	Ready(ctx context.Context) (dto.HealthResponse, bool)
}

type healthService struct {
	deps Deps
}

func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &healthService{deps: d}
}

func (s *healthService) Live(context.Context) dto.HealthResponse {
	return dto.HealthResponse{Status: "ok", Version: s.deps.Version, Timestamp: s.deps.Now().UTC()}
}

func (s *healthService) Ready(ctx context.Context) (dto.HealthResponse, bool) {
	var (
		mu         sync.Mutex
		components = make(map[string]dto.HealthStatus, len(s.deps.Checks))
	)

	// sin WithContext: un check caído no cancela a los demás
	var g errgroup.Group
	for name, check := range s.deps.Checks {
		name, check := name, check
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
			defer cancel()

			st := dto.HealthStatus{Status: "ok"}
			err := check.Ping(cctx)
			if err != nil {
				st = dto.HealthStatus{Status: "error", Message: err.Error()}
			}
			mu.Lock()
			components[name] = st
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()

	resp := dto.HealthResponse{
		Status:     "ready",
		Components: components,
		Version:    s.deps.Version,
		Timestamp:  s.deps.Now().UTC(),
	}
	if err != nil {
		resp.Status = "unavailable"
		return resp, false
	}
	return resp, true
}
