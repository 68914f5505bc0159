package render

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
)

func TestHTMLRenderer_LoginForm(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, WritePage(rec, r, dto.PageModel{
		ServiceName:     "Demo Service",
		ClientName:      "Demo <Client>",
		Scopes:          []decision.Scope{{Name: "openid", Description: "OpenID Connect"}},
		LoginID:         "alice",
		LoginIDReadOnly: true,
	}))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, body, `action="/authorization/decision"`)
	assert.Contains(t, body, `value="alice" readonly`)
	assert.Contains(t, body, `name="password"`)
	assert.Contains(t, body, `name="authorized"`)
	assert.Contains(t, body, "Demo &lt;Client&gt;")
	assert.Contains(t, body, "OpenID Connect")
}

func TestHTMLRenderer_LoggedInUser(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, WritePage(rec, r, dto.PageModel{
		LoginID: "bob",
		User:    &directory.User{Subject: "1001", Name: "John Smith"},
	}))

	body := rec.Body.String()
	assert.Contains(t, body, "1001 (John Smith)")
	assert.NotContains(t, body, `name="password"`)
	assert.NotContains(t, body, "readonly")
}

type brokenRenderer struct{}

func (brokenRenderer) Render(io.Writer, dto.PageModel) error { return errors.New("broken") }

func TestWritePage_ErrorWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WritePage(rec, brokenRenderer{}, dto.PageModel{})
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}
