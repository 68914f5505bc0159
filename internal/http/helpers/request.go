package helpers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
)

const formContentType = "application/x-www-form-urlencoded"

// ReadRawForm devuelve el body form-urlencoded sin parsear. Los parámetros
// viajan byte a byte al servicio de decisión, así que no se usa ParseForm.
func ReadRawForm(r *http.Request) (string, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != formContentType {
			return "", httperrors.ErrUnsupportedMediaType
		}
	}
	if r.Body == nil {
		return "", nil
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", httperrors.ErrBodyTooLarge
		}
		return "", httperrors.ErrBadRequest.WithDetail("could not read body").WithCause(err)
	}
	return string(b), nil
}

// ParseForm parsea el body y mapea el error de tamaño a 413.
func ParseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrBadRequest.WithDetail("invalid form data").WithCause(err)
	}
	return nil
}
