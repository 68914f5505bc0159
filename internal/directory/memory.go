package directory

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/authzserver/internal/security/password"
)

// Seed es un usuario inicial del directorio en memoria.
// Si PasswordHash está vacío se hashea Password al construir.
type Seed struct {
	User         `yaml:",inline"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

// DemoSeeds son los usuarios de demostración.
func DemoSeeds() []Seed {
	return []Seed{
		{
			User: User{
				Subject: "1001", LoginID: "john",
				Name: "John Smith", Email: "john@example.com",
				Address: &Address{Country: "USA"}, PhoneNumber: "+1 (425) 555-1212",
			},
			Password: "john",
		},
		{
			User: User{
				Subject: "1002", LoginID: "jane",
				Name: "Jane Smith", Email: "jane@example.com",
				Address: &Address{Country: "Chile"}, PhoneNumber: "+56 (2) 687 2400",
			},
			Password: "jane",
		},
	}
}

type memEntry struct {
	user User
	hash string
}

// Memory es un directorio inmutable en memoria.
type Memory struct {
	byLogin map[string]memEntry
}

var _ Directory = (*Memory)(nil)

func NewMemory(params password.Params, seeds []Seed) (*Memory, error) {
	m := &Memory{byLogin: make(map[string]memEntry, len(seeds))}
	for _, s := range seeds {
		if s.LoginID == "" || s.Subject == "" {
			return nil, fmt.Errorf("directory: seed without login_id/subject")
		}
		if _, dup := m.byLogin[s.LoginID]; dup {
			return nil, fmt.Errorf("directory: duplicate login_id %q", s.LoginID)
		}
		hash := s.PasswordHash
		if hash == "" {
			h, err := password.Hash(params, s.Password)
			if err != nil {
				return nil, fmt.Errorf("directory: hash %q: %w", s.LoginID, err)
			}
			hash = h
		}
		m.byLogin[s.LoginID] = memEntry{user: s.User, hash: hash}
	}
	return m, nil
}

func (m *Memory) LookupByCredentials(_ context.Context, loginID, pwd string) (User, bool, error) {
	e, ok := m.byLogin[loginID]
	if !ok || !password.Verify(pwd, e.hash) {
		return User{}, false, nil
	}
	return e.user, true, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}
