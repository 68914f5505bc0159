package authorization

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/authorization"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// DecisionController maneja POST /authorization/decision.
type DecisionController struct {
	service  svc.DecisionService
	cookies  SessionResolver
	sessions SessionOpener
}

func NewDecisionController(s svc.DecisionService, cookies SessionResolver, sessions SessionOpener) *DecisionController {
	return &DecisionController{service: s, cookies: cookies, sessions: sessions}
}

func (c *DecisionController) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DecisionController.Decide"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}
	if err := helpers.ParseForm(r); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	// authorized cuenta por presencia, el valor no importa
	_, authorized := r.PostForm["authorized"]
	req := dto.DecisionRequest{
		LoginID:    r.PostForm.Get("loginId"),
		Password:   r.PostForm.Get("password"),
		Authorized: authorized,
	}

	store, err := openStore(w, r, c.cookies, c.sessions)
	if err != nil {
		log.Error("open session failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	resp, err := c.service.Decide(ctx, store, req)
	if err != nil {
		if errors.Is(err, svc.ErrNoTicket) {
			log.Info("decision without ticket")
			httperrors.WriteProtocolError(w, http.StatusBadRequest, httperrors.ProtocolInvalidRequest,
				"No authorization request is in progress for this session.")
			return
		}
		log.Warn("decision failed", logger.Err(err))
		helpers.WriteUpstreamError(w, err)
		return
	}

	helpers.WriteResponse(w, *resp)
}
