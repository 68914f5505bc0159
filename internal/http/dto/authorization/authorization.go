// Package authorization contiene los DTOs del endpoint de autorización
// interactivo y del endpoint de decisión.
package authorization

import (
	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
)

// Ticket es el ticket en vuelo de la sesión (uno por sesión).
type Ticket struct {
	Ticket       string
	ClaimNames   []string
	ClaimLocales []string
}

// UserRecord es el usuario autenticado de la sesión.
type UserRecord struct {
	Subject         string
	AuthenticatedAt int64 // epoch seconds
	Profile         directory.User
}

// PageModel alimenta la página de login/consentimiento.
type PageModel struct {
	ServiceName string
	ClientName  string
	Description string
	LogoURI     string
	ClientURI   string
	PolicyURI   string
	TosURI      string
	Scopes      []decision.Scope
	// LoginID sugerido: subject, si no loginHint, si no vacío.
	LoginID string
	// LoginIDReadOnly es true cuando la request fija el subject.
	LoginIDReadOnly bool
	// User es el usuario de sesión vigente (nil si no hay o fue descartado).
	User *directory.User
}

// DecisionRequest son los campos del form POST /authorization/decision.
type DecisionRequest struct {
	LoginID  string
	Password string
	// Authorized refleja solo la presencia del campo "authorized".
	Authorized bool
}

// AuthorizeResultType indica qué hacer con el resultado de Authorize.
type AuthorizeResultType int

const (
	// AuthorizeResultPage: renderizar Page.
	AuthorizeResultPage AuthorizeResultType = iota
	// AuthorizeResultRelay: devolver Response tal cual la dicta el servicio.
	AuthorizeResultRelay
)

type AuthorizeResult struct {
	Type     AuthorizeResultType
	Page     *PageModel
	Response *decision.Response
}
