package helpers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
)

// UpstreamError traduce fallos de colaboradores (servicio de decisión,
// directorio) a errores HTTP. No hay reintentos locales: el error se reporta
// una sola vez al caller.
func UpstreamError(err error) *httperrors.AppError {
	var appErr *httperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, decision.ErrTimeout):
		return httperrors.ErrGatewayTimeout.WithCause(err)
	case errors.Is(err, decision.ErrUpstream), errors.Is(err, directory.ErrUnavailable):
		return httperrors.ErrUpstream.WithCause(err)
	}
	return httperrors.ErrInternalServerError.WithCause(err)
}

// WriteUpstreamError escribe el error con no-store: son respuestas de un
// endpoint de protocolo y no deben cachearse.
func WriteUpstreamError(w http.ResponseWriter, err error) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	httperrors.WriteError(w, UpstreamError(err))
}
