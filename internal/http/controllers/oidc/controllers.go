// Package oidc contiene los controllers de JWKS y discovery.
package oidc

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/oidc"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// Controllers agrupa todos los controllers del dominio OIDC.
type Controllers struct {
	JWKS      *JWKSController
	Discovery *DiscoveryController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		JWKS:      NewJWKSController(s.JWKS),
		Discovery: NewDiscoveryController(s.Discovery),
	}
}

// JWKSController maneja GET /jwks.
type JWKSController struct {
	service svc.JWKSService
}

func NewJWKSController(s svc.JWKSService) *JWKSController {
	return &JWKSController{service: s}
}

func (c *JWKSController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := c.service.GetJWKS(ctx)
	if err != nil {
		logger.From(ctx).Warn("jwks unavailable", logger.Layer("controller"), logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}
	helpers.WriteRawJSON(w, http.StatusOK, doc)
}

// DiscoveryController maneja GET /.well-known/openid-configuration.
type DiscoveryController struct {
	service svc.DiscoveryService
}

func NewDiscoveryController(s svc.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{service: s}
}

func (c *DiscoveryController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := c.service.GetDiscovery(ctx)
	if err != nil {
		logger.From(ctx).Warn("discovery unavailable", logger.Layer("controller"), logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}
	helpers.WriteRawJSON(w, http.StatusOK, doc)
}
