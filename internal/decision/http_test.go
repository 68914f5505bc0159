package decision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/reauth"
)

type recorded struct {
	path string
	body map[string]any
	user string
	pass string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []recorded
	reply map[string]string
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{path: r.URL.Path}
		rec.user, rec.pass, _ = r.BasicAuth()
		if r.Method == http.MethodPost {
			b, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(b, &rec.body))
		}
		f.mu.Lock()
		f.calls = append(f.calls, rec)
		f.mu.Unlock()

		out, ok := f.reply[r.URL.Path]
		if !ok {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, out)
	}
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestClient(t *testing.T, reply map[string]string) (*HTTPClient, *fakeAPI) {
	api := &fakeAPI{reply: reply}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return NewHTTPClient(Config{BaseURL: srv.URL + "/", APIKey: "key", APISecret: "secret", Timeout: 2 * time.Second}), api
}

func TestAuthorize_Interaction(t *testing.T) {
	c, api := newTestClient(t, map[string]string{
		pathAuthorization: `{
			"action":"INTERACTION","ticket":"T1",
			"claims":["name","email"],"claimsLocales":["en"],
			"prompts":["LOGIN","CONSENT"],"maxAge":60,
			"subject":null,"loginHint":"bob@example.com",
			"client":{"clientName":"Demo","logoUri":"https://demo/logo.png"},
			"service":{"serviceName":"Svc"},
			"scopes":[{"name":"openid","description":"OpenID"}]
		}`,
	})

	raw := "response_type=code&client_id=57297408867&redirect_uri=https%3A%2F%2Fx%2Fcb&scope=openid+email"
	out, err := c.Authorize(context.Background(), raw)
	require.NoError(t, err)

	call := api.last()
	assert.Equal(t, raw, call.body["parameters"], "parameters forwarded byte-identical")
	assert.Equal(t, "key", call.user)
	assert.Equal(t, "secret", call.pass)

	assert.Equal(t, Interaction{}, out.Action)
	assert.Equal(t, "T1", out.Ticket)
	assert.Equal(t, []string{"name", "email"}, out.ClaimNames)
	assert.Equal(t, []string{"en"}, out.ClaimLocales)
	assert.Equal(t, []reauth.Prompt{reauth.PromptLogin, reauth.PromptConsent}, out.Prompts)
	assert.Equal(t, int64(60), out.MaxAge)
	assert.Empty(t, out.Subject)
	assert.Equal(t, "bob@example.com", out.LoginHint)
	assert.Equal(t, "Demo", out.Client.ClientName)
	assert.Equal(t, "Svc", out.Service.ServiceName)
	require.Len(t, out.Scopes, 1)
}

func TestAuthorize_ActionMapping(t *testing.T) {
	tests := []struct {
		body string
		want Action
		resp Response
	}{
		{`{"action":"NO_INTERACTION","ticket":"T2"}`, NoInteraction{}, Response{}},
		{`{"action":"BAD_REQUEST","responseContent":"{\"error\":\"invalid_request\"}"}`,
			Failure{Kind: KindBadRequest}, Response{Kind: KindBadRequest, Content: `{"error":"invalid_request"}`}},
		{`{"action":"LOCATION","responseContent":"https://client/cb?error=login_required"}`,
			Failure{Kind: KindLocation}, Response{Kind: KindLocation, Content: "https://client/cb?error=login_required"}},
		{`{}`, Failure{Kind: KindInternalServerError}, Response{Kind: KindInternalServerError}},
	}
	for _, tt := range tests {
		c, _ := newTestClient(t, map[string]string{pathAuthorization: tt.body})
		out, err := c.Authorize(context.Background(), "a=b")
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Action, tt.body)
		assert.Equal(t, tt.resp, out.Response, tt.body)
	}
}

func TestDecide_IssueAndFail(t *testing.T) {
	reply := map[string]string{
		pathAuthorizationIssue: `{"action":"LOCATION","responseContent":"https://client/cb?code=abc"}`,
		pathAuthorizationFail:  `{"action":"LOCATION","responseContent":"https://client/cb?error=access_denied"}`,
	}
	c, api := newTestClient(t, reply)
	ctx := context.Background()

	resp, err := c.Decide(ctx, DecideRequest{
		Ticket: "T1", Authorized: true, Subject: "1001", AuthTime: 1700000000,
		Claims: map[string]any{"name": "John Smith"},
	})
	require.NoError(t, err)
	assert.Equal(t, Response{Kind: KindLocation, Content: "https://client/cb?code=abc"}, *resp)
	call := api.last()
	assert.Equal(t, pathAuthorizationIssue, call.path)
	assert.Equal(t, "T1", call.body["ticket"])
	assert.Equal(t, "1001", call.body["subject"])
	assert.EqualValues(t, 1700000000, call.body["authTime"])
	assert.JSONEq(t, `{"name":"John Smith"}`, call.body["claims"].(string))

	_, err = c.Decide(ctx, DecideRequest{Ticket: "T1", Authorized: false, Subject: "1001"})
	require.NoError(t, err)
	assert.Equal(t, pathAuthorizationFail, api.last().path)
	assert.Equal(t, "DENIED", api.last().body["reason"])

	_, err = c.Decide(ctx, DecideRequest{Ticket: "T1", Authorized: true})
	require.NoError(t, err)
	assert.Equal(t, "NOT_AUTHENTICATED", api.last().body["reason"])
}

func TestToken_PasswordFlow(t *testing.T) {
	c, api := newTestClient(t, map[string]string{
		pathToken:      `{"action":"PASSWORD","ticket":"TT","username":"john","password":"john"}`,
		pathTokenIssue: `{"action":"OK","responseContent":"{\"access_token\":\"x\"}"}`,
		pathTokenFail:  `{"action":"BAD_REQUEST","responseContent":"{\"error\":\"invalid_grant\"}"}`,
	})
	ctx := context.Background()

	out, err := c.Token(ctx, "grant_type=password&username=john&password=john", ClientCredentials{ID: "cid", Secret: "cs"})
	require.NoError(t, err)
	assert.Equal(t, KindPassword, out.Response.Kind)
	assert.Equal(t, "TT", out.Ticket)
	assert.Equal(t, "john", out.Username)
	assert.Equal(t, "cid", api.last().body["clientId"])

	resp, err := c.TokenIssue(ctx, "TT", "1001")
	require.NoError(t, err)
	assert.Equal(t, KindOK, resp.Kind)

	resp, err = c.TokenFail(ctx, "TT")
	require.NoError(t, err)
	assert.Equal(t, KindBadRequest, resp.Kind)
	assert.Equal(t, "INVALID_RESOURCE_OWNER_CREDENTIALS", api.last().body["reason"])
}

func TestJWKSAndConfiguration_Raw(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		pathJWKS:          `{"keys":[]}`,
		pathConfiguration: `{"issuer":"https://as.example.com"}`,
	})
	jwks, err := c.JWKS(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":[]}`, string(jwks))

	conf, err := c.Configuration(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"issuer":"https://as.example.com"}`, string(conf))
	assert.NoError(t, c.Ping(context.Background()))
}

func TestCall_UpstreamErrors(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{pathAuthorization: `not json`})
	_, err := c.Authorize(context.Background(), "")
	assert.ErrorIs(t, err, ErrUpstream)

	// ruta sin respuesta → 500
	_, err = c.Introspect(context.Background(), "token=x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCall_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	var observed error
	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond},
		WithObserver(func(op string, _ time.Duration, err error) {
			assert.Equal(t, "authorize", op)
			observed = err
		}))

	_, err := c.Authorize(context.Background(), "a=b")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, observed, ErrTimeout)
}

func TestDecide_FailReasonOverride(t *testing.T) {
	c, api := newTestClient(t, map[string]string{
		pathAuthorizationFail: `{"action":"LOCATION","responseContent":"https://client/cb?error=login_required"}`,
	})
	_, err := c.Decide(context.Background(), DecideRequest{Ticket: "T9", Authorized: true, FailReason: ReasonNotLoggedIn})
	require.NoError(t, err)
	assert.Equal(t, "NOT_LOGGED_IN", api.last().body["reason"])
}
