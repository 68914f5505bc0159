package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	httperrors "github.com/dropDatabas3/authzserver/internal/http/errors"
)

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		kind        decision.ResponseKind
		status      int
		contentType string
	}{
		{decision.KindForm, http.StatusOK, "text/html; charset=utf-8"},
		{decision.KindOK, http.StatusOK, "application/json; charset=utf-8"},
		{decision.KindJWT, http.StatusOK, "application/jwt"},
		{decision.KindBadRequest, http.StatusBadRequest, "application/json; charset=utf-8"},
		{decision.KindUnauthorized, http.StatusUnauthorized, "application/json; charset=utf-8"},
		{decision.KindInvalidClient, http.StatusUnauthorized, "application/json; charset=utf-8"},
		{decision.KindForbidden, http.StatusForbidden, "application/json; charset=utf-8"},
		{decision.KindInternalServerError, http.StatusInternalServerError, "application/json; charset=utf-8"},
		{decision.ResponseKind("SOMETHING_NEW"), http.StatusInternalServerError, "application/json; charset=utf-8"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteResponse(rec, decision.Response{Kind: tt.kind, Content: `{"x":1}`})

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, StatusFor(tt.kind))
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
			assert.Equal(t, `{"x":1}`, rec.Body.String())
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="authzserver"`, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestWriteResponse_Location(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponse(rec, decision.Response{Kind: decision.KindLocation, Content: "https://c.example/cb?code=abc&state=s"})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://c.example/cb?code=abc&state=s", rec.Header().Get("Location"))
	assert.Empty(t, rec.Body.String())
}

func TestReadRawForm(t *testing.T) {
	body := "response_type=code&client_id=1&scope=openid+email&state=a%2Fb"
	r := httptest.NewRequest(http.MethodPost, "/authorization", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	got, err := ReadRawForm(r)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	r = httptest.NewRequest(http.MethodPost, "/authorization", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "application/json")
	_, err = ReadRawForm(r)
	assert.ErrorIs(t, err, httperrors.ErrUnsupportedMediaType)
}

func TestReadRawForm_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/authorization", strings.NewReader(strings.Repeat("a", 64)))
	r.Body = http.MaxBytesReader(rec, r.Body, 8)

	_, err := ReadRawForm(r)
	assert.ErrorIs(t, err, httperrors.ErrBodyTooLarge)
}

func TestUpstreamError(t *testing.T) {
	assert.Nil(t, UpstreamError(nil))

	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: authorization: deadline", decision.ErrTimeout), http.StatusGatewayTimeout},
		{fmt.Errorf("%w: authorization: 500", decision.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("lookup: %w", directory.ErrUnavailable), http.StatusBadGateway},
		{httperrors.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, UpstreamError(tt.err).HTTPStatus, tt.err.Error())
	}
}
