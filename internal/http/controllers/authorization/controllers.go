// Package authorization contiene los controllers del endpoint de
// autorización interactivo y del endpoint de decisión.
package authorization

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/http/render"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/authorization"
	"github.com/dropDatabas3/authzserver/internal/session"
)

// SessionResolver resuelve el id de sesión del navegador (emitiendo la
// cookie si hace falta).
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (sid string, fresh bool)
}

// SessionOpener abre el store de interacción para un id de sesión.
type SessionOpener interface {
	Open(sid string) (session.Store, error)
}

// Deps contiene las dependencias de los controllers.
type Deps struct {
	Services svc.Services
	Cookies  SessionResolver
	Sessions SessionOpener
	Renderer render.PageRenderer
}

// Controllers agrupa los controllers del dominio.
type Controllers struct {
	Authorization *AuthorizationController
	Decision      *DecisionController
}

func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Authorization: NewAuthorizationController(d.Services.Dispatcher, d.Cookies, d.Sessions, d.Renderer),
		Decision:      NewDecisionController(d.Services.Decision, d.Cookies, d.Sessions),
	}
}

// openStore resuelve la sesión una sola vez por request.
func openStore(w http.ResponseWriter, r *http.Request, cookies SessionResolver, sessions SessionOpener) (session.Store, error) {
	sid, _ := cookies.Resolve(w, r)
	return sessions.Open(sid)
}
