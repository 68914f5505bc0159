package authorization

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/authzserver/internal/audit"
	"github.com/dropDatabas3/authzserver/internal/decision"
	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
	"github.com/dropDatabas3/authzserver/internal/metrics"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
	"github.com/dropDatabas3/authzserver/internal/reauth"
	"github.com/dropDatabas3/authzserver/internal/session"
)

// Dispatcher atiende GET/POST /authorization.
type Dispatcher interface {
	// Authorize reenvía params sin tocarlos y rutea según la acción.
	Authorize(ctx context.Context, s session.Store, params string) (dto.AuthorizeResult, error)
}

type dispatcher struct {
	client  decision.Client
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewDispatcher(d Deps) Dispatcher {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &dispatcher{client: d.Client, metrics: d.Metrics, now: now}
}

func (d *dispatcher) Authorize(ctx context.Context, s session.Store, params string) (dto.AuthorizeResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Dispatcher.Authorize"))

	// Nada se escribe en sesión antes de que Authorize responda.
	out, err := d.client.Authorize(ctx, params)
	if err != nil {
		return dto.AuthorizeResult{}, err
	}
	d.metrics.AuthorizationOutcome(out.Action.String())
	log.Debug("authorization outcome",
		logger.Action(out.Action.String()),
		logger.String("client_name", out.Client.ClientName))

	switch a := out.Action.(type) {
	case decision.Interaction:
		return d.interaction(ctx, s, out)
	case decision.NoInteraction:
		return d.noInteraction(ctx, s, out)
	case decision.Failure:
		resp := out.Response
		return dto.AuthorizeResult{Type: dto.AuthorizeResultRelay, Response: &resp}, nil
	default:
		return dto.AuthorizeResult{}, fmt.Errorf("authorization: unhandled action %T", a)
	}
}

func (d *dispatcher) interaction(ctx context.Context, s session.Store, out *decision.Outcome) (dto.AuthorizeResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Dispatcher.interaction"))

	user, err := loadUser(ctx, s)
	if err != nil {
		return dto.AuthorizeResult{}, err
	}

	// La política corre antes de armar la página para no mostrar una identidad vieja.
	var authAt *int64
	if user != nil {
		authAt = &user.AuthenticatedAt
	}
	verdict := reauth.Evaluate(authAt, out.Prompts, out.MaxAge, d.now())
	if verdict.Verdict == reauth.Clear {
		if err := clearUser(ctx, s); err != nil {
			return dto.AuthorizeResult{}, err
		}
		d.metrics.ReauthCleared(string(verdict.Reason))
		log.Debug("session user cleared", logger.Reason(string(verdict.Reason)), logger.Subject(user.Subject))
		audit.Log(ctx, audit.EventReauthCleared, logger.Subject(user.Subject), logger.Reason(string(verdict.Reason)))
		user = nil
	}

	// Pisa cualquier ticket previo: un ticket vivo por sesión.
	if err := storeTicket(ctx, s, dto.Ticket{
		Ticket:       out.Ticket,
		ClaimNames:   out.ClaimNames,
		ClaimLocales: out.ClaimLocales,
	}); err != nil {
		return dto.AuthorizeResult{}, err
	}

	page := buildPageModel(out, user)
	return dto.AuthorizeResult{Type: dto.AuthorizeResultPage, Page: &page}, nil
}

// noInteraction completa prompt=none con el usuario de sesión, sin mutarla.
func (d *dispatcher) noInteraction(ctx context.Context, s session.Store, out *decision.Outcome) (dto.AuthorizeResult, error) {
	user, err := loadUser(ctx, s)
	if err != nil {
		return dto.AuthorizeResult{}, err
	}

	req := decision.DecideRequest{
		Ticket:       out.Ticket,
		Authorized:   true,
		ClaimNames:   out.ClaimNames,
		ClaimLocales: out.ClaimLocales,
	}
	switch {
	case user == nil:
		req.FailReason = decision.ReasonNotLoggedIn
	case out.MaxAge > 0 && d.now().Unix()-user.AuthenticatedAt > out.MaxAge:
		req.FailReason = decision.ReasonExceedsMaxAge
	case out.Subject != "" && out.Subject != user.Subject:
		req.FailReason = decision.ReasonDifferentSubject
	default:
		req.Subject = user.Subject
		req.AuthTime = user.AuthenticatedAt
		req.Claims = user.Profile.Claims(out.ClaimNames)
	}

	resp, err := d.client.Decide(ctx, req)
	if err != nil {
		return dto.AuthorizeResult{}, err
	}
	return dto.AuthorizeResult{Type: dto.AuthorizeResultRelay, Response: resp}, nil
}

func buildPageModel(out *decision.Outcome, user *dto.UserRecord) dto.PageModel {
	m := dto.PageModel{
		ServiceName:     out.Service.ServiceName,
		ClientName:      out.Client.ClientName,
		Description:     out.Client.Description,
		LogoURI:         out.Client.LogoURI,
		ClientURI:       out.Client.ClientURI,
		PolicyURI:       out.Client.PolicyURI,
		TosURI:          out.Client.TosURI,
		Scopes:          out.Scopes,
		LoginID:         out.LoginHint,
		LoginIDReadOnly: out.Subject != "",
	}
	if out.Subject != "" {
		m.LoginID = out.Subject
	}
	if user != nil {
		p := user.Profile
		m.User = &p
	}
	return m
}
