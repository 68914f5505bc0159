package oauth

import (
	"context"

	"github.com/dropDatabas3/authzserver/internal/decision"
)

// RevokeService reenvía POST /revocation (RFC 7009).
type RevokeService interface {
	Revoke(ctx context.Context, params string, creds decision.ClientCredentials) (*decision.Response, error)
}

type revokeService struct {
	relay decision.Relay
}

func NewRevokeService(r decision.Relay) RevokeService {
	return &revokeService{relay: r}
}

func (s *revokeService) Revoke(ctx context.Context, params string, creds decision.ClientCredentials) (*decision.Response, error) {
	return s.relay.Revoke(ctx, params, creds)
}
