package authorization

import (
	"context"
	"time"

	"github.com/dropDatabas3/authzserver/internal/audit"
	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
	"github.com/dropDatabas3/authzserver/internal/metrics"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
	"github.com/dropDatabas3/authzserver/internal/session"
	"github.com/dropDatabas3/authzserver/internal/util"
)

// DecisionService atiende POST /authorization/decision.
type DecisionService interface {
	Decide(ctx context.Context, s session.Store, req dto.DecisionRequest) (*decision.Response, error)
}

type decisionService struct {
	client    decision.Client
	directory directory.Directory
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewDecisionService(d Deps) DecisionService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &decisionService{client: d.Client, directory: d.Directory, metrics: d.Metrics, now: now}
}

// Decide autentica si hace falta, lee el ticket y reenvía la decisión.
// El ticket queda en sesión: una segunda decisión con el mismo ticket la
// resuelve el servicio externo.
func (s *decisionService) Decide(ctx context.Context, st session.Store, req dto.DecisionRequest) (*decision.Response, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("DecisionService.Decide"))

	user, err := loadUser(ctx, st)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.authenticate(ctx, st, req.LoginID, req.Password)
		if err != nil {
			return nil, err
		}
	}

	// El ticket se busca después de autenticar: sin ticket el login queda
	// guardado igual y sirve para el próximo flujo de esta sesión.
	ticket, err := loadTicket(ctx, st)
	if err != nil {
		return nil, err
	}

	dreq := decision.DecideRequest{
		Ticket:       ticket.Ticket,
		Authorized:   req.Authorized,
		ClaimNames:   ticket.ClaimNames,
		ClaimLocales: ticket.ClaimLocales,
	}
	if user != nil {
		dreq.Subject = user.Subject
		dreq.AuthTime = user.AuthenticatedAt
		dreq.Claims = user.Profile.Claims(ticket.ClaimNames)
	}
	s.metrics.Decision(dreq.Authorized, dreq.Subject != "")
	log.Debug("submitting decision", logger.Bool("authorized", dreq.Authorized), logger.Subject(dreq.Subject))
	audit.Log(ctx, audit.EventDecision, logger.Subject(dreq.Subject), logger.Bool("authorized", dreq.Authorized))

	return s.client.Decide(ctx, dreq)
}

// authenticate consulta el directorio. Sin match no es error: el usuario
// sigue sin autenticar y la decisión lo refleja.
func (s *decisionService) authenticate(ctx context.Context, st session.Store, loginID, password string) (*dto.UserRecord, error) {
	u, ok, err := s.directory.LookupByCredentials(ctx, loginID, password)
	if err != nil {
		s.metrics.DirectoryLookup("error")
		return nil, err
	}
	if !ok {
		s.metrics.DirectoryLookup("no_match")
		audit.Log(ctx, audit.EventLoginFailed, logger.String("login_id", util.MaskLoginID(loginID)))
		return nil, nil
	}
	s.metrics.DirectoryLookup("match")
	audit.Log(ctx, audit.EventLoginOK, logger.Subject(u.Subject))

	rec := &dto.UserRecord{Subject: u.Subject, AuthenticatedAt: s.now().Unix(), Profile: u}
	if err := storeUser(ctx, st, u, rec.AuthenticatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}
