// Package render dibuja la página de login y consentimiento.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"

	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DecisionPath es el destino del formulario.
const DecisionPath = "/authorization/decision"

// PageRenderer convierte un PageModel en la página de autorización.
type PageRenderer interface {
	Render(w io.Writer, m dto.PageModel) error
}

type htmlRenderer struct {
	tpl *template.Template
}

// NewHTMLRenderer parsea el template embebido. Falla solo si el template
// está roto, así que conviene llamarlo al arrancar.
func NewHTMLRenderer() (PageRenderer, error) {
	tpl, err := template.New("authorization.html").
		Funcs(template.FuncMap{"decisionPath": func() string { return DecisionPath }}).
		ParseFS(templatesFS, "templates/authorization.html")
	if err != nil {
		return nil, err
	}
	return &htmlRenderer{tpl: tpl}, nil
}

func (r *htmlRenderer) Render(w io.Writer, m dto.PageModel) error {
	return r.tpl.Execute(w, m)
}

// WritePage renderiza a un buffer primero para no mandar un 200 a medias.
func WritePage(w http.ResponseWriter, r PageRenderer, m dto.PageModel) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, m); err != nil {
		return err
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
