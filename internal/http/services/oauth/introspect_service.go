package oauth

import (
	"context"

	"github.com/dropDatabas3/authzserver/internal/decision"
)

// IntrospectService reenvía POST /introspection (RFC 7662).
type IntrospectService interface {
	Introspect(ctx context.Context, params string) (*decision.Response, error)
}

type introspectService struct {
	relay decision.Relay
}

func NewIntrospectService(r decision.Relay) IntrospectService {
	return &introspectService{relay: r}
}

func (s *introspectService) Introspect(ctx context.Context, params string) (*decision.Response, error) {
	return s.relay.Introspect(ctx, params)
}
