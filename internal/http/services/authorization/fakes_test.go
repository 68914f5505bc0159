package authorization

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/cache"
	"github.com/dropDatabas3/authzserver/internal/decision"
	"github.com/dropDatabas3/authzserver/internal/directory"
	"github.com/dropDatabas3/authzserver/internal/security/password"
	"github.com/dropDatabas3/authzserver/internal/session"
)

// fakeClient registra las llamadas y devuelve respuestas fijas.
type fakeClient struct {
	outcome      *decision.Outcome
	authorizeErr error
	decideResp   *decision.Response
	decideErr    error

	params  []string
	decided []decision.DecideRequest
}

func (f *fakeClient) Authorize(_ context.Context, params string) (*decision.Outcome, error) {
	f.params = append(f.params, params)
	if f.authorizeErr != nil {
		return nil, f.authorizeErr
	}
	return f.outcome, nil
}

func (f *fakeClient) Decide(_ context.Context, req decision.DecideRequest) (*decision.Response, error) {
	f.decided = append(f.decided, req)
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	if f.decideResp != nil {
		return f.decideResp, nil
	}
	return &decision.Response{Kind: decision.KindLocation, Content: "https://client.example.com/cb?code=c0de"}, nil
}

type failingDirectory struct{ err error }

func (f failingDirectory) LookupByCredentials(context.Context, string, string) (directory.User, bool, error) {
	return directory.User{}, false, f.err
}
func (failingDirectory) Ping(context.Context) error { return nil }
func (failingDirectory) Close()                     {}

var now = time.Unix(1_700_000_000, 0)

func newDirectory(t *testing.T) directory.Directory {
	t.Helper()
	dir, err := directory.NewMemory(password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 16}, directory.DemoSeeds())
	require.NoError(t, err)
	return dir
}

func newStore(t *testing.T) session.Store {
	t.Helper()
	s, err := session.NewManager(cache.NewMemory(""), time.Hour).Open("browser-1")
	require.NoError(t, err)
	return s
}

func newServices(t *testing.T, client *fakeClient) Services {
	return NewServices(Deps{
		Client:    client,
		Directory: newDirectory(t),
		Now:       func() time.Time { return now },
	})
}

func interaction(ticket string) *decision.Outcome {
	return &decision.Outcome{
		Action:       decision.Interaction{},
		Ticket:       ticket,
		ClaimNames:   []string{"name", "email"},
		ClaimLocales: []string{"en"},
		Client:       decision.ClientInfo{ClientName: "Demo Client", LogoURI: "https://client.example.com/logo.png"},
		Service:      decision.ServiceInfo{ServiceName: "Demo Service"},
		Scopes:       []decision.Scope{{Name: "openid"}, {Name: "email"}},
	}
}
