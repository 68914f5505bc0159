// Package session implementa el almacén de interacción por sesión de navegador.
//
// Cada sesión se identifica por un id opaco extraído una sola vez en el borde
// del request (ver Cookies). Los componentes reciben un Store ya acotado a ese
// id y nunca tocan el transporte subyacente.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/authzserver/internal/cache"
	tokens "github.com/dropDatabas3/authzserver/internal/security/token"
)

const keyNamespace = "isess"

var (
	ErrNoSession = errors.New("session: empty session id")
	ErrBackend   = errors.New("session: backend error")
	ErrDecode    = errors.New("session: decode error")
)

// Store es el contrato de una sesión de interacción.
// Las lecturas no consumen valores; el borrado es siempre explícito.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// GetStructured decodifica el valor en out. false si no existe.
	GetStructured(ctx context.Context, key string, out any) (bool, error)
	SetStructured(ctx context.Context, key string, v any) error
	Remove(ctx context.Context, key string) error
	// Clear elimina todas las keys de la sesión.
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
}

// Manager abre Stores sobre un cache.Client compartido.
type Manager struct {
	c     cache.Client
	codec Codec
	ttl   time.Duration
}

type Option func(*Manager)

// WithCodec reemplaza el codec JSON por defecto.
func WithCodec(c Codec) Option {
	return func(m *Manager) { m.codec = c }
}

// NewManager crea un Manager. ttl se renueva en cada escritura.
func NewManager(c cache.Client, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{c: c, codec: JSONCodec{}, ttl: ttl}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Open devuelve el Store de la sesión sid.
func (m *Manager) Open(sid string) (Store, error) {
	if sid == "" {
		return nil, ErrNoSession
	}
	// el id crudo nunca llega al backend
	ns := fmt.Sprintf("%s:%s:", keyNamespace, tokens.SHA256Base64URL(sid))
	return &cacheStore{c: m.c, ns: ns, codec: m.codec, ttl: m.ttl}, nil
}

// Ping verifica el backend (readiness).
func (m *Manager) Ping(ctx context.Context) error {
	return m.c.Ping(ctx)
}

type cacheStore struct {
	c     cache.Client
	ns    string
	codec Codec
	ttl   time.Duration
}

func (s *cacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.c.Get(ctx, s.ns+key)
	if err != nil {
		if cache.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: get %s: %v", ErrBackend, key, err)
	}
	return v, true, nil
}

func (s *cacheStore) Set(ctx context.Context, key, value string) error {
	if err := s.c.Set(ctx, s.ns+key, value, s.ttl); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrBackend, key, err)
	}
	return nil
}

func (s *cacheStore) GetStructured(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.codec.Decode([]byte(raw), out); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return true, nil
}

func (s *cacheStore) SetStructured(ctx context.Context, key string, v any) error {
	b, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}

func (s *cacheStore) Remove(ctx context.Context, key string) error {
	if err := s.c.Delete(ctx, s.ns+key); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrBackend, key, err)
	}
	return nil
}

func (s *cacheStore) Clear(ctx context.Context) error {
	if err := s.c.DeletePrefix(ctx, s.ns); err != nil {
		return fmt.Errorf("%w: clear: %v", ErrBackend, err)
	}
	return nil
}

func (s *cacheStore) Has(ctx context.Context, key string) (bool, error) {
	ok, err := s.c.Exists(ctx, s.ns+key)
	if err != nil {
		return false, fmt.Errorf("%w: has %s: %v", ErrBackend, key, err)
	}
	return ok, nil
}
