package oauth

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/oauth"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// IntrospectController maneja POST /introspection.
type IntrospectController struct {
	service svc.IntrospectService
}

func NewIntrospectController(s svc.IntrospectService) *IntrospectController {
	return &IntrospectController{service: s}
}

func (c *IntrospectController) Introspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IntrospectController.Introspect"))

	params, _, ok := readRelayRequest(w, r)
	if !ok {
		return
	}

	resp, err := c.service.Introspect(ctx, params)
	if err != nil {
		log.Warn("introspection relay failed", logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}
	helpers.WriteResponse(w, *resp)
}
