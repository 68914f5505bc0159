package oauth

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/oauth"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// TokenController maneja POST /token.
type TokenController struct {
	service svc.TokenService
}

func NewTokenController(s svc.TokenService) *TokenController {
	return &TokenController{service: s}
}

func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("oauth.token"))

	params, creds, ok := readRelayRequest(w, r)
	if !ok {
		return
	}

	resp, err := c.service.Token(ctx, params, creds)
	if err != nil {
		log.Warn("token relay failed", logger.ClientID(creds.ID), logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}
	helpers.WriteResponse(w, *resp)
}
