// Package oauth contiene los services de los endpoints OAuth que se
// reenvían al servicio de decisión (token, introspección, revocación).
package oauth

import (
	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	"github.com/dropDatabas3/authzserver/internal/metrics"
)

// Deps contiene las dependencias para crear los services OAuth.
type Deps struct {
	Relay     decision.Relay
	Directory directory.Directory
	Metrics   *metrics.Metrics // opcional
}

// Services agrupa todos los services del dominio OAuth.
type Services struct {
	Token      TokenService
	Introspect IntrospectService
	Revoke     RevokeService
}

func NewServices(d Deps) Services {
	return Services{
		Token:      NewTokenService(d),
		Introspect: NewIntrospectService(d.Relay),
		Revoke:     NewRevokeService(d.Relay),
	}
}
