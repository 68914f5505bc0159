// Package decision es el cliente del servicio externo de decisión de
// autorización. El servicio valida clientes, scopes y emite códigos/tokens;
// este paquete solo transporta parámetros y devuelve lo que el servicio dicta.
package decision

import (
	"context"
	"errors"

	"github.com/dropDatabas3/authzserver/internal/reauth"
)

var (
	// ErrUpstream: el servicio respondió con error o algo ilegible.
	ErrUpstream = errors.New("decision: upstream error")
	// ErrTimeout: se agotó el timeout visible por el caller.
	ErrTimeout = errors.New("decision: upstream timeout")
)

// Action es la suma cerrada de resultados de Authorize.
// Solo los tipos de este paquete la implementan.
type Action interface {
	isAction()
	String() string
}

// Interaction: el usuario debe loguearse y/o consentir.
type Interaction struct{}

// NoInteraction: prompt=none; el servicio afirma que no hace falta UI.
type NoInteraction struct{}

// Failure: cualquier otra acción. Kind es el código del servicio y la
// respuesta a devolver viene en Outcome.Response.
type Failure struct {
	Kind ResponseKind
}

func (Interaction) isAction()   {}
func (NoInteraction) isAction() {}
func (Failure) isAction()       {}

func (Interaction) String() string   { return "INTERACTION" }
func (NoInteraction) String() string { return "NO_INTERACTION" }
func (f Failure) String() string     { return string(f.Kind) }

// ResponseKind indica cómo materializar una respuesta del servicio en HTTP.
type ResponseKind string

const (
	KindLocation            ResponseKind = "LOCATION"
	KindForm                ResponseKind = "FORM"
	KindOK                  ResponseKind = "OK"
	KindJWT                 ResponseKind = "JWT"
	KindBadRequest          ResponseKind = "BAD_REQUEST"
	KindUnauthorized        ResponseKind = "UNAUTHORIZED"
	KindInvalidClient       ResponseKind = "INVALID_CLIENT"
	KindForbidden           ResponseKind = "FORBIDDEN"
	KindInternalServerError ResponseKind = "INTERNAL_SERVER_ERROR"
	// KindPassword solo aparece en /token: hay que verificar credenciales
	// del resource owner antes de emitir.
	KindPassword ResponseKind = "PASSWORD"
)

// Response es una respuesta final dictada por el servicio.
type Response struct {
	Kind    ResponseKind
	Content string
}

type ClientInfo struct {
	ClientID    int64  `json:"clientId"`
	ClientName  string `json:"clientName"`
	Description string `json:"description"`
	LogoURI     string `json:"logoUri"`
	ClientURI   string `json:"clientUri"`
	PolicyURI   string `json:"policyUri"`
	TosURI      string `json:"tosUri"`
}

type ServiceInfo struct {
	ServiceName string `json:"serviceName"`
}

type Scope struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Outcome es el resultado inmutable de Authorize.
type Outcome struct {
	Action       Action
	Ticket       string
	ClaimNames   []string
	ClaimLocales []string
	Prompts      []reauth.Prompt
	MaxAge       int64  // segundos, 0 = sin límite
	Subject      string // vacío = la request no fija sujeto
	LoginHint    string
	Client       ClientInfo
	Service      ServiceInfo
	Scopes       []Scope
	// Response solo tiene sentido cuando Action es Failure.
	Response Response
}

// DecideRequest es la decisión del usuario sobre un ticket.
type DecideRequest struct {
	Ticket       string
	Authorized   bool
	Subject      string // vacío = no autenticado
	AuthTime     int64  // epoch seconds
	ClaimNames   []string
	ClaimLocales []string
	// Claims son los valores del perfil para ClaimNames que el usuario tiene.
	Claims map[string]any
	// FailReason reemplaza el motivo por defecto si la decisión termina en fail.
	FailReason FailReason
}

// FailReason es el motivo informado a authorization/fail.
type FailReason string

const (
	ReasonDenied           FailReason = "DENIED"
	ReasonNotAuthenticated FailReason = "NOT_AUTHENTICATED"
	ReasonNotLoggedIn      FailReason = "NOT_LOGGED_IN"
	ReasonExceedsMaxAge    FailReason = "EXCEEDS_MAX_AGE"
	ReasonDifferentSubject FailReason = "DIFFERENT_SUBJECT"
)

// TokenOutcome es el resultado de /token. Con KindPassword el caller
// verifica Username/Password y llama TokenIssue o TokenFail con Ticket.
type TokenOutcome struct {
	Response Response
	Ticket   string
	Username string
	Password string
}

// ClientCredentials son las credenciales del cliente OAuth (Basic auth).
type ClientCredentials struct {
	ID     string
	Secret string
}

// Client es el contrato de autorización con el servicio.
type Client interface {
	Authorize(ctx context.Context, params string) (*Outcome, error)
	Decide(ctx context.Context, req DecideRequest) (*Response, error)
}

// Relay agrupa los endpoints que solo se reenvían.
type Relay interface {
	Token(ctx context.Context, params string, creds ClientCredentials) (*TokenOutcome, error)
	TokenIssue(ctx context.Context, ticket, subject string) (*Response, error)
	TokenFail(ctx context.Context, ticket string) (*Response, error)
	Introspect(ctx context.Context, params string) (*Response, error)
	Revoke(ctx context.Context, params string, creds ClientCredentials) (*Response, error)
	JWKS(ctx context.Context) ([]byte, error)
	Configuration(ctx context.Context) ([]byte, error)
	Ping(ctx context.Context) error
}
