package authorization

import (
	"net/http"

	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	"github.com/dropDatabas3/authzserver/internal/http/render"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/authorization"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// AuthorizationController maneja GET/POST /authorization.
type AuthorizationController struct {
	service  svc.Dispatcher
	cookies  SessionResolver
	sessions SessionOpener
	renderer render.PageRenderer
}

func NewAuthorizationController(s svc.Dispatcher, cookies SessionResolver, sessions SessionOpener, renderer render.PageRenderer) *AuthorizationController {
	return &AuthorizationController{service: s, cookies: cookies, sessions: sessions, renderer: renderer}
}

// Authorize toma los parámetros crudos (query en GET, body en POST) y los
// entrega sin decodificar al servicio de decisión.
func (c *AuthorizationController) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthorizationController.Authorize"))

	var params string
	switch r.Method {
	case http.MethodGet:
		params = r.URL.RawQuery
	case http.MethodPost:
		raw, err := helpers.ReadRawForm(r)
		if err != nil {
			httperrors.WriteError(w, err)
			return
		}
		params = raw
	default:
		w.Header().Set("Allow", "GET, POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	store, err := openStore(w, r, c.cookies, c.sessions)
	if err != nil {
		log.Error("open session failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	res, err := c.service.Authorize(ctx, store, params)
	if err != nil {
		log.Warn("authorization failed", logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}

	switch res.Type {
	case dto.AuthorizeResultPage:
		if err := render.WritePage(w, c.renderer, *res.Page); err != nil {
			log.Error("render page failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
	case dto.AuthorizeResultRelay:
		helpers.WriteResponse(w, *res.Response)
	}
}
