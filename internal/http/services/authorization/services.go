// Package authorization orquesta el endpoint de autorización interactivo:
// despacha el resultado de Authorize, aplica la política de reautenticación y
// correlaciona el ticket con la decisión posterior a través de la sesión.
package authorization

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
	"github.com/dropDatabas3/authzserver/internal/metrics"
	"github.com/dropDatabas3/authzserver/internal/session"
)

// Keys de la sesión de interacción. Cada registro va completo bajo una sola
// key: un Set fallido deja el valor anterior intacto, nunca una mezcla.
const (
	keyTicket = "ticket"
	keyUser   = "user"
)

// ticketEntry es el ticket en vuelo junto con sus claims.
type ticketEntry struct {
	Ticket       string   `json:"ticket"`
	ClaimNames   []string `json:"claimNames,omitempty"`
	ClaimLocales []string `json:"claimLocales,omitempty"`
}

// userEntry es el usuario autenticado junto con su momento de login.
type userEntry struct {
	Profile         directory.User `json:"profile"`
	AuthenticatedAt int64          `json:"authenticatedAt"`
}

// ErrNoTicket: decisión sin ticket en sesión (vencida o repetida en otra sesión).
var ErrNoTicket = errors.New("authorization: no ticket in session")

// Deps contiene las dependencias de los services del dominio.
type Deps struct {
	Client    decision.Client
	Directory directory.Directory
	Metrics   *metrics.Metrics // opcional
	Now       func() time.Time // opcional, default time.Now
}

// Services agrupa los services del dominio.
type Services struct {
	Dispatcher Dispatcher
	Decision   DecisionService
}

func NewServices(d Deps) Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	return Services{
		Dispatcher: NewDispatcher(d),
		Decision:   NewDecisionService(d),
	}
}

// loadUser lee el usuario autenticado de la sesión. Sin usuario → nil.
// Un timestamp ausente cuenta como 0 (siempre viejo para max_age).
func loadUser(ctx context.Context, s session.Store) (*dto.UserRecord, error) {
	var e userEntry
	ok, err := s.GetStructured(ctx, keyUser, &e)
	if err != nil || !ok {
		return nil, err
	}
	return &dto.UserRecord{Subject: e.Profile.Subject, AuthenticatedAt: e.AuthenticatedAt, Profile: e.Profile}, nil
}

func storeUser(ctx context.Context, s session.Store, u directory.User, authAt int64) error {
	return s.SetStructured(ctx, keyUser, userEntry{Profile: u, AuthenticatedAt: authAt})
}

func clearUser(ctx context.Context, s session.Store) error {
	return s.Remove(ctx, keyUser)
}

func storeTicket(ctx context.Context, s session.Store, t dto.Ticket) error {
	return s.SetStructured(ctx, keyTicket, ticketEntry{
		Ticket:       t.Ticket,
		ClaimNames:   t.ClaimNames,
		ClaimLocales: t.ClaimLocales,
	})
}

func loadTicket(ctx context.Context, s session.Store) (*dto.Ticket, error) {
	var e ticketEntry
	ok, err := s.GetStructured(ctx, keyTicket, &e)
	if err != nil {
		return nil, err
	}
	if !ok || e.Ticket == "" {
		return nil, ErrNoTicket
	}
	return &dto.Ticket{Ticket: e.Ticket, ClaimNames: e.ClaimNames, ClaimLocales: e.ClaimLocales}, nil
}
