package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	svc "github.com/dropDatabas3/authzserver/internal/http/services/health"
)

func TestHealthController(t *testing.T) {
	down := svc.PingFunc(func(context.Context) error { return errors.New("down") })
	c := NewControllers(svc.NewServices(svc.Deps{Checks: map[string]svc.Pinger{"decision": down}}))

	rec := httptest.NewRecorder()
	c.Health.Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c.Health.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unavailable"`)
}
