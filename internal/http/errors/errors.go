package errors

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta HTTP para err.
// Maneja *AppError y errores genéricos (500).
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// protocolError es la forma OAuth 2.0 (RFC 6749 §5.2).
type protocolError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Códigos OAuth que se detectan localmente.
const (
	ProtocolInvalidRequest = "invalid_request"
)

// WriteProtocolError escribe un error con forma OAuth. Solo para condiciones
// detectadas localmente (ej. decisión sin ticket); el resto de errores de
// protocolo los dicta el servicio de decisión.
func WriteProtocolError(w http.ResponseWriter, status int, code, description string) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(protocolError{Error: code, ErrorDescription: description})
}
