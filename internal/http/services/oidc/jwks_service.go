package oidc

import (
	"context"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// JWKSService devuelve el JWK Set público del servicio.
type JWKSService interface {
	GetJWKS(ctx context.Context) ([]byte, error)
}

type jwksService struct {
	relay decision.Relay
	docs  *documentCache
}

func NewJWKSService(r decision.Relay, docs *documentCache) JWKSService {
	return &jwksService{relay: r, docs: docs}
}

const componentJWKS = "oidc.jwks"

func (s *jwksService) GetJWKS(ctx context.Context) ([]byte, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentJWKS),
		logger.Op("GetJWKS"),
	)

	data, _, err := s.docs.get(ctx, "jwks", s.relay.JWKS)
	if err != nil {
		log.Error("failed to get JWKS", logger.Err(err))
		return nil, err
	}
	return data, nil
}
