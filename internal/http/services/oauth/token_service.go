package oauth

import (
	"context"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	"github.com/dropDatabas3/authzserver/internal/metrics"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// TokenService reenvía POST /token. Solo interviene localmente cuando el
// servicio pide verificar credenciales del resource owner (grant password).
type TokenService interface {
	Token(ctx context.Context, params string, creds decision.ClientCredentials) (*decision.Response, error)
}

type tokenService struct {
	relay     decision.Relay
	directory directory.Directory
	metrics   *metrics.Metrics
}

func NewTokenService(d Deps) TokenService {
	return &tokenService{relay: d.Relay, directory: d.Directory, metrics: d.Metrics}
}

func (s *tokenService) Token(ctx context.Context, params string, creds decision.ClientCredentials) (*decision.Response, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.token"),
		logger.Op("Token"),
	)

	out, err := s.relay.Token(ctx, params, creds)
	if err != nil {
		return nil, err
	}
	if out.Response.Kind != decision.KindPassword {
		return &out.Response, nil
	}

	u, ok, err := s.directory.LookupByCredentials(ctx, out.Username, out.Password)
	if err != nil {
		s.metrics.DirectoryLookup("error")
		return nil, err
	}
	if !ok {
		s.metrics.DirectoryLookup("no_match")
		log.Debug("resource owner credentials rejected", logger.ClientID(creds.ID))
		return s.relay.TokenFail(ctx, out.Ticket)
	}
	s.metrics.DirectoryLookup("match")
	log.Debug("resource owner authenticated", logger.ClientID(creds.ID), logger.Subject(u.Subject))
	return s.relay.TokenIssue(ctx, out.Ticket, u.Subject)
}
