package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/authzserver/internal/decision"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/oidc"
)

type stubDocs struct{ err error }

func (s stubDocs) GetJWKS(context.Context) ([]byte, error) {
	return []byte(`{"keys":[{"kid":"k1"}]}`), s.err
}

func (s stubDocs) GetDiscovery(context.Context) ([]byte, error) {
	return []byte(`{"issuer":"https://as.example.com"}`), s.err
}

func TestJWKSController(t *testing.T) {
	c := NewControllers(svc.Services{JWKS: stubDocs{}, Discovery: stubDocs{}})

	rec := httptest.NewRecorder()
	c.JWKS.Get(rec, httptest.NewRequest(http.MethodGet, "/jwks", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"keys":[{"kid":"k1"}]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c.Discovery.Get(rec, httptest.NewRequest(http.MethodGet, "/.well-known/openid-configuration", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "issuer")
}

func TestJWKSController_Upstream(t *testing.T) {
	c := NewControllers(svc.Services{JWKS: stubDocs{err: fmt.Errorf("%w: jwks", decision.ErrUpstream)}})

	rec := httptest.NewRecorder()
	c.JWKS.Get(rec, httptest.NewRequest(http.MethodGet, "/jwks", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
