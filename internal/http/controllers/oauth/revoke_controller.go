package oauth

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/oauth"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// RevokeController maneja POST /revocation.
type RevokeController struct {
	service svc.RevokeService
}

func NewRevokeController(s svc.RevokeService) *RevokeController {
	return &RevokeController{service: s}
}

func (c *RevokeController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RevokeController.Revoke"))

	params, creds, ok := readRelayRequest(w, r)
	if !ok {
		return
	}

	resp, err := c.service.Revoke(ctx, params, creds)
	if err != nil {
		log.Warn("revocation relay failed", logger.ClientID(creds.ID), logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}
	helpers.WriteResponse(w, *resp)
}
