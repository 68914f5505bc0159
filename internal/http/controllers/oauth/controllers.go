// Package oauth contiene los controllers de token, introspección y revocación.
package oauth

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/decision"
	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
	"github.com/dropDatabas3/authzserver/internal/http/helpers"
	svc "github.com/dropDatabas3/authzserver/internal/http/services/oauth"
)

// Controllers agrupa todos los controllers del dominio OAuth.
type Controllers struct {
	Token      *TokenController
	Introspect *IntrospectController
	Revoke     *RevokeController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Token:      NewTokenController(s.Token),
		Introspect: NewIntrospectController(s.Introspect),
		Revoke:     NewRevokeController(s.Revoke),
	}
}

// readRelayRequest valida método y devuelve el body crudo más las
// credenciales Basic del cliente (vacías si no vinieron).
func readRelayRequest(w http.ResponseWriter, r *http.Request) (string, decision.ClientCredentials, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return "", decision.ClientCredentials{}, false
	}
	params, err := helpers.ReadRawForm(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return "", decision.ClientCredentials{}, false
	}
	var creds decision.ClientCredentials
	if id, secret, ok := r.BasicAuth(); ok {
		creds = decision.ClientCredentials{ID: id, Secret: secret}
	}
	return params, creds, true
}
