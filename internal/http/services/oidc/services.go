// Package oidc contiene los services de JWKS y discovery. Ambos documentos
// los dicta el servicio de decisión; acá solo se cachean por un TTL corto.
package oidc

import (
	"time"

	"github.com/dropDatabas3/authzserver/internal/decision"
)

// DefaultTTL es el TTL del cache de documentos si Deps.TTL es 0.
const DefaultTTL = 5 * time.Minute

// Deps contiene las dependencias para crear los services OIDC.
type Deps struct {
	Relay decision.Relay
	TTL   time.Duration
}

// Services agrupa todos los services del dominio OIDC.
type Services struct {
	JWKS      JWKSService
	Discovery DiscoveryService
}

func NewServices(d Deps) Services {
	if d.TTL <= 0 {
		d.TTL = DefaultTTL
	}
	docs := newDocumentCache(d.TTL)
	return Services{
		JWKS:      NewJWKSService(d.Relay, docs),
		Discovery: NewDiscoveryService(d.Relay, docs),
	}
}
