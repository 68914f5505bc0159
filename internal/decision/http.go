package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/authzserver/internal/reauth"
)

const (
	pathAuthorization      = "/api/auth/authorization"
	pathAuthorizationIssue = "/api/auth/authorization/issue"
	pathAuthorizationFail  = "/api/auth/authorization/fail"
	pathToken              = "/api/auth/token"
	pathTokenIssue         = "/api/auth/token/issue"
	pathTokenFail          = "/api/auth/token/fail"
	pathIntrospection      = "/api/auth/introspection/standard"
	pathRevocation         = "/api/auth/revocation"
	pathJWKS               = "/api/service/jwks/get"
	pathConfiguration      = "/api/service/configuration"

	maxResponseBytes = 1 << 20
)

// Motivo de token/fail.
const reasonInvalidOwner = "INVALID_RESOURCE_OWNER_CREDENTIALS"

// Observer recibe la latencia de cada llamada. Lo usa el paquete metrics.
type Observer func(op string, d time.Duration, err error)

// Config del cliente HTTP.
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// HTTPClient implementa Client y Relay sobre la API JSON del servicio.
// No reintenta: un fallo se propaga al request actual.
type HTTPClient struct {
	cfg      Config
	hc       *http.Client
	observer Observer
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) { c.hc = hc }
}

func WithObserver(o Observer) HTTPOption {
	return func(c *HTTPClient) { c.observer = o }
}

func NewHTTPClient(cfg Config, opts ...HTTPOption) *HTTPClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &HTTPClient{cfg: cfg, hc: &http.Client{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Relay  = (*HTTPClient)(nil)
)

// ─── wire ───

type authorizationResponse struct {
	Action          string      `json:"action"`
	Ticket          string      `json:"ticket"`
	Claims          []string    `json:"claims"`
	ClaimsLocales   []string    `json:"claimsLocales"`
	Prompts         []string    `json:"prompts"`
	MaxAge          int64       `json:"maxAge"`
	Subject         *string     `json:"subject"`
	LoginHint       *string     `json:"loginHint"`
	Client          ClientInfo  `json:"client"`
	Service         ServiceInfo `json:"service"`
	Scopes          []Scope     `json:"scopes"`
	ResponseContent string      `json:"responseContent"`
	ResultMessage   string      `json:"resultMessage"`
}

type actionResponse struct {
	Action          string `json:"action"`
	ResponseContent string `json:"responseContent"`
	Ticket          string `json:"ticket"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

type issueRequest struct {
	Ticket   string `json:"ticket"`
	Subject  string `json:"subject"`
	AuthTime int64  `json:"authTime,omitempty"`
	Claims   string `json:"claims,omitempty"`
}

type failRequest struct {
	Ticket string `json:"ticket"`
	Reason string `json:"reason"`
}

func (c *HTTPClient) fail(ctx context.Context, ticket string, reason, override FailReason) (*Response, error) {
	if override != "" {
		reason = override
	}
	return c.action(ctx, "authorization_fail", pathAuthorizationFail, failRequest{Ticket: ticket, Reason: string(reason)})
}

type paramsRequest struct {
	Parameters   string `json:"parameters"`
	ClientID     string `json:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// ─── Client ───

func (c *HTTPClient) Authorize(ctx context.Context, params string) (*Outcome, error) {
	var resp authorizationResponse
	if err := c.call(ctx, "authorize", http.MethodPost, pathAuthorization, paramsRequest{Parameters: params}, &resp); err != nil {
		return nil, err
	}
	return resp.outcome(), nil
}

func (r *authorizationResponse) outcome() *Outcome {
	o := &Outcome{
		Ticket:       r.Ticket,
		ClaimNames:   r.Claims,
		ClaimLocales: r.ClaimsLocales,
		MaxAge:       r.MaxAge,
		Client:       r.Client,
		Service:      r.Service,
		Scopes:       r.Scopes,
	}
	if r.Subject != nil {
		o.Subject = *r.Subject
	}
	if r.LoginHint != nil {
		o.LoginHint = *r.LoginHint
	}
	for _, p := range r.Prompts {
		o.Prompts = append(o.Prompts, reauth.Prompt(strings.ToUpper(p)))
	}
	switch r.Action {
	case "INTERACTION":
		o.Action = Interaction{}
	case "NO_INTERACTION":
		o.Action = NoInteraction{}
	default:
		kind := ResponseKind(r.Action)
		if kind == "" {
			kind = KindInternalServerError
		}
		o.Action = Failure{Kind: kind}
		o.Response = Response{Kind: kind, Content: r.ResponseContent}
	}
	return o
}

// Decide traduce la decisión a issue o fail:
// no autorizado → DENIED, autorizado sin sujeto → NOT_AUTHENTICATED.
func (c *HTTPClient) Decide(ctx context.Context, req DecideRequest) (*Response, error) {
	if !req.Authorized {
		return c.fail(ctx, req.Ticket, ReasonDenied, req.FailReason)
	}
	if req.Subject == "" {
		return c.fail(ctx, req.Ticket, ReasonNotAuthenticated, req.FailReason)
	}
	body := issueRequest{Ticket: req.Ticket, Subject: req.Subject, AuthTime: req.AuthTime}
	if len(req.Claims) > 0 {
		b, err := json.Marshal(req.Claims)
		if err != nil {
			return nil, fmt.Errorf("decision: encode claims: %w", err)
		}
		body.Claims = string(b)
	}
	return c.action(ctx, "authorization_issue", pathAuthorizationIssue, body)
}

// ─── Relay ───

func (c *HTTPClient) Token(ctx context.Context, params string, creds ClientCredentials) (*TokenOutcome, error) {
	var resp actionResponse
	req := paramsRequest{Parameters: params, ClientID: creds.ID, ClientSecret: creds.Secret}
	if err := c.call(ctx, "token", http.MethodPost, pathToken, req, &resp); err != nil {
		return nil, err
	}
	return &TokenOutcome{
		Response: resp.response(),
		Ticket:   resp.Ticket,
		Username: resp.Username,
		Password: resp.Password,
	}, nil
}

func (c *HTTPClient) TokenIssue(ctx context.Context, ticket, subject string) (*Response, error) {
	return c.action(ctx, "token_issue", pathTokenIssue, issueRequest{Ticket: ticket, Subject: subject})
}

func (c *HTTPClient) TokenFail(ctx context.Context, ticket string) (*Response, error) {
	return c.action(ctx, "token_fail", pathTokenFail, failRequest{Ticket: ticket, Reason: reasonInvalidOwner})
}

func (c *HTTPClient) Introspect(ctx context.Context, params string) (*Response, error) {
	return c.action(ctx, "introspection", pathIntrospection, paramsRequest{Parameters: params})
}

func (c *HTTPClient) Revoke(ctx context.Context, params string, creds ClientCredentials) (*Response, error) {
	return c.action(ctx, "revocation", pathRevocation, paramsRequest{Parameters: params, ClientID: creds.ID, ClientSecret: creds.Secret})
}

func (c *HTTPClient) JWKS(ctx context.Context) ([]byte, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "jwks", http.MethodGet, pathJWKS, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) Configuration(ctx context.Context) ([]byte, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "configuration", http.MethodGet, pathConfiguration, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Ping usa el documento de configuración como health check.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.Configuration(ctx)
	return err
}

// ─── transporte ───

func (r actionResponse) response() Response {
	kind := ResponseKind(r.Action)
	if kind == "" {
		kind = KindInternalServerError
	}
	return Response{Kind: kind, Content: r.ResponseContent}
}

func (c *HTTPClient) action(ctx context.Context, op, path string, body any) (*Response, error) {
	var resp actionResponse
	if err := c.call(ctx, op, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	out := resp.response()
	return &out, nil
}

func (c *HTTPClient) call(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer(op, time.Since(start), err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		b, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("decision: %s: encode: %w", op, mErr)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
		}
		return fmt.Errorf("%w: %s: read: %v", ErrUpstream, op, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %s: status %d", ErrUpstream, op, res.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", ErrUpstream, op, err)
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
