// Package directory resuelve usuarios por credenciales (login id + password).
// No hay coincidencias parciales: o matchean ambos o no hay usuario.
package directory

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("directory: unavailable")

// Address es el claim "address" de OIDC (solo lo que usamos).
type Address struct {
	Country string `json:"country,omitempty" yaml:"country"`
}

// User es un registro del directorio. Password nunca sale de este paquete.
type User struct {
	Subject     string   `json:"subject" yaml:"subject"`
	LoginID     string   `json:"loginId" yaml:"login_id"`
	Name        string   `json:"name,omitempty" yaml:"name"`
	Email       string   `json:"email,omitempty" yaml:"email"`
	Address     *Address `json:"address,omitempty" yaml:"address"`
	PhoneNumber string   `json:"phoneNumber,omitempty" yaml:"phone_number"`
}

// ClaimValue devuelve el valor del claim estándar pedido, si el usuario lo tiene.
func (u User) ClaimValue(claim string) (any, bool) {
	switch claim {
	case "sub":
		return u.Subject, u.Subject != ""
	case "name":
		return u.Name, u.Name != ""
	case "email":
		return u.Email, u.Email != ""
	case "address":
		if u.Address == nil {
			return nil, false
		}
		return *u.Address, true
	case "phone_number":
		return u.PhoneNumber, u.PhoneNumber != ""
	}
	return nil, false
}

// Claims arma el mapa de valores para los claims pedidos.
func (u User) Claims(names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, n := range names {
		if v, ok := u.ClaimValue(n); ok {
			out[n] = v
		}
	}
	return out
}

// Directory es el contrato del directorio de usuarios.
type Directory interface {
	// LookupByCredentials devuelve (user, true, nil) si loginID y password
	// coinciden, (User{}, false, nil) si no. err solo ante fallos del backend.
	LookupByCredentials(ctx context.Context, loginID, password string) (User, bool, error)
	Ping(ctx context.Context) error
	Close()
}
