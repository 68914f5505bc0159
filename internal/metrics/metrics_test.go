package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.AuthorizationOutcome("INTERACTION")
	m.AuthorizationOutcome("INTERACTION")
	m.ReauthCleared("prompt_login")
	m.Decision(true, false)
	m.ObserveUpstream("authorize", 20*time.Millisecond, nil)
	m.ObserveUpstream("authorize", 20*time.Millisecond, errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("INTERACTION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reauthClears.WithLabelValues("prompt_login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("true", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.upstream))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AuthorizationOutcome("x")
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.InflightInc("GET")
		m.InflightDec("GET")
		m.ObserveUpstream("op", 0, nil)
		m.DirectoryLookup("match")
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.ObserveHTTP("GET", "/authorization", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/authorization",status="200"} 1`)
}
