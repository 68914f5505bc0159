// Package metrics agrupa las métricas Prometheus del servidor: HTTP, resultados
// del flujo de autorización y latencia del servicio de decisión.
//
// Todos los métodos aceptan receptor nil (métricas deshabilitadas).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInflight   *prometheus.GaugeVec
	outcomes       *prometheus.CounterVec
	decisions      *prometheus.CounterVec
	reauthClears   *prometheus.CounterVec
	upstream       *prometheus.HistogramVec
	directoryLooks *prometheus.CounterVec

	gatherer prometheus.Gatherer
	reg      prometheus.Registerer
}

// New crea y registra las métricas en reg. reg nil → registry propio.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método",
		}, []string{"method"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_authorization_outcomes_total",
			Help: "Resultados de Authorize por acción",
		}, []string{"action"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Decisiones enviadas al servicio",
		}, []string{"authorized", "authenticated"}),
		reauthClears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_reauth_clears_total",
			Help: "Usuarios de sesión descartados por política de reautenticación",
		}, []string{"reason"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authz_upstream_duration_seconds",
			Help:    "Latencia de llamadas al servicio de decisión",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op", "result"}),
		directoryLooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_directory_lookups_total",
			Help: "Búsquedas en el directorio por resultado",
		}, []string{"result"}), // match|no_match|error
		gatherer: reg,
		reg:      reg,
	}
	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpDuration, m.httpInflight,
		m.outcomes, m.decisions, m.reauthClears, m.upstream, m.directoryLooks,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registerer expone el registry para collectors externos (pool de Postgres).
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler sirve /metrics con el registry de m.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) InflightInc(method string) {
	if m == nil {
		return
	}
	m.httpInflight.WithLabelValues(method).Inc()
}

func (m *Metrics) InflightDec(method string) {
	if m == nil {
		return
	}
	m.httpInflight.WithLabelValues(method).Dec()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) AuthorizationOutcome(action string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(action).Inc()
}

func (m *Metrics) Decision(authorized, authenticated bool) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(strconv.FormatBool(authorized), strconv.FormatBool(authenticated)).Inc()
}

func (m *Metrics) ReauthCleared(reason string) {
	if m == nil {
		return
	}
	m.reauthClears.WithLabelValues(reason).Inc()
}

// ObserveUpstream tiene la firma de decision.Observer.
func (m *Metrics) ObserveUpstream(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.upstream.WithLabelValues(op, result).Observe(d.Seconds())
}

func (m *Metrics) DirectoryLookup(result string) {
	if m == nil {
		return
	}
	m.directoryLooks.WithLabelValues(result).Inc()
}

// registerCollector registra ignorando duplicados.
func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}
