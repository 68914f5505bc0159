package oidc

import (
	"context"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// DiscoveryService devuelve el documento openid-configuration.
type DiscoveryService interface {
	GetDiscovery(ctx context.Context) ([]byte, error)
}

type discoveryService struct {
	relay decision.Relay
	docs  *documentCache
}

func NewDiscoveryService(r decision.Relay, docs *documentCache) DiscoveryService {
	return &discoveryService{relay: r, docs: docs}
}

const componentDiscovery = "oidc.discovery"

func (s *discoveryService) GetDiscovery(ctx context.Context) ([]byte, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentDiscovery),
		logger.Op("GetDiscovery"),
	)

	data, _, err := s.docs.get(ctx, "configuration", s.relay.Configuration)
	if err != nil {
		log.Error("failed to get discovery document", logger.Err(err))
		return nil, err
	}
	return data, nil
}
