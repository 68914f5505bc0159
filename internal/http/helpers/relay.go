// Package helpers contiene utilidades compartidas por los controllers:
// escritura de respuestas dictadas por el servicio de decisión, lectura de
// requests crudos y mapeo de errores de colaboradores a HTTP.
package helpers

import (
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/decision"
)

// Realm del header WWW-Authenticate en 401.
const Realm = "authzserver"

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJWT  = "application/jwt"
)

// WriteResponse escribe tal cual la respuesta que dictó el servicio de decisión.
// El contenido nunca se reinterpreta: solo se elige status y headers.
func WriteResponse(w http.ResponseWriter, resp decision.Response) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")

	switch resp.Kind {
	case decision.KindLocation:
		h.Set("Location", resp.Content)
		w.WriteHeader(http.StatusFound)
		return
	case decision.KindForm:
		writeBody(w, http.StatusOK, contentTypeHTML, resp.Content)
	case decision.KindOK:
		writeBody(w, http.StatusOK, contentTypeJSON, resp.Content)
	case decision.KindJWT:
		writeBody(w, http.StatusOK, contentTypeJWT, resp.Content)
	case decision.KindBadRequest:
		writeBody(w, http.StatusBadRequest, contentTypeJSON, resp.Content)
	case decision.KindUnauthorized, decision.KindInvalidClient:
		h.Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
		writeBody(w, http.StatusUnauthorized, contentTypeJSON, resp.Content)
	case decision.KindForbidden:
		writeBody(w, http.StatusForbidden, contentTypeJSON, resp.Content)
	default:
		// INTERNAL_SERVER_ERROR y cualquier acción desconocida
		writeBody(w, http.StatusInternalServerError, contentTypeJSON, resp.Content)
	}
}

// StatusFor devuelve el status HTTP con que WriteResponse escribiría kind.
func StatusFor(kind decision.ResponseKind) int {
	switch kind {
	case decision.KindLocation:
		return http.StatusFound
	case decision.KindForm, decision.KindOK, decision.KindJWT:
		return http.StatusOK
	case decision.KindBadRequest:
		return http.StatusBadRequest
	case decision.KindUnauthorized, decision.KindInvalidClient:
		return http.StatusUnauthorized
	case decision.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// WriteRawJSON escribe un documento JSON ya serializado (JWKS, discovery).
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeBody(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
