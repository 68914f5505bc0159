package authorization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/directory"
	dto "github.com/dropDatabas3/authzserver/internal/http/dto/authorization"
)

func TestDecision_TicketRoundTrip_AuthenticatesUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	client := &fakeClient{outcome: interaction("T1")}
	svc := newServices(t, client)

	_, err := svc.Dispatcher.Authorize(ctx, s, "x=1")
	require.NoError(t, err)

	resp, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{LoginID: "john", Password: "john", Authorized: true})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "code=")

	require.Len(t, client.decided, 1)
	got := client.decided[0]
	assert.Equal(t, "T1", got.Ticket)
	assert.True(t, got.Authorized)
	assert.Equal(t, "1001", got.Subject)
	assert.Equal(t, now.Unix(), got.AuthTime)
	assert.Equal(t, []string{"name", "email"}, got.ClaimNames)
	assert.Equal(t, []string{"en"}, got.ClaimLocales)
	assert.Equal(t, map[string]any{"name": "John Smith", "email": "john@example.com"}, got.Claims)

	user, err := loadUser(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "1001", user.Subject)
	assert.Equal(t, now.Unix(), user.AuthenticatedAt)

	// el ticket no se consume localmente
	has, _ := s.Has(ctx, keyTicket)
	assert.True(t, has)
}

func TestDecision_NotAuthorizedField(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, storeTicket(ctx, s, dto.Ticket{Ticket: "T1"}))
	client := &fakeClient{}
	svc := newServices(t, client)

	_, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{LoginID: "john", Password: "john"})
	require.NoError(t, err)
	require.Len(t, client.decided, 1)
	assert.False(t, client.decided[0].Authorized)
	assert.Equal(t, "1001", client.decided[0].Subject)
}

func TestDecision_BadCredentials_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, storeTicket(ctx, s, dto.Ticket{Ticket: "T1"}))
	client := &fakeClient{}
	svc := newServices(t, client)

	_, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{LoginID: "john", Password: "wrong", Authorized: true})
	require.NoError(t, err)
	assert.Empty(t, client.decided[0].Subject)
	assert.Nil(t, client.decided[0].Claims)

	user, _ := loadUser(ctx, s)
	assert.Nil(t, user)
}

func TestDecision_ExistingUserSkipsDirectory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUser(t, s, "1001", now.Unix()-5)
	require.NoError(t, storeTicket(ctx, s, dto.Ticket{Ticket: "T1"}))
	client := &fakeClient{}
	svc := NewServices(Deps{
		Client:    client,
		Directory: failingDirectory{err: errors.New("must not be called")},
		Now:       func() time.Time { return now },
	})

	_, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{LoginID: "jane", Password: "jane", Authorized: true})
	require.NoError(t, err)
	assert.Equal(t, "1001", client.decided[0].Subject)
	assert.Equal(t, now.Unix()-5, client.decided[0].AuthTime)
}

func TestDecision_MissingTicket(t *testing.T) {
	client := &fakeClient{}
	svc := newServices(t, client)

	_, err := svc.Decision.Decide(context.Background(), newStore(t), dto.DecisionRequest{Authorized: true})
	assert.ErrorIs(t, err, ErrNoTicket)
	assert.Empty(t, client.decided, "Decide must not be called without a ticket")
}

func TestDecision_MissingTicketKeepsLogin(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	client := &fakeClient{}
	svc := newServices(t, client)

	_, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{LoginID: "john", Password: "john", Authorized: true})
	require.ErrorIs(t, err, ErrNoTicket)
	assert.Empty(t, client.decided)

	user, err := loadUser(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "1001", user.Subject)
	assert.Equal(t, now.Unix(), user.AuthenticatedAt)
}

func TestDecision_DirectoryError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, storeTicket(ctx, s, dto.Ticket{Ticket: "T1"}))
	client := &fakeClient{}
	svc := NewServices(Deps{Client: client, Directory: failingDirectory{err: directory.ErrUnavailable}})

	_, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{LoginID: "john", Password: "john"})
	assert.ErrorIs(t, err, directory.ErrUnavailable)
	assert.Empty(t, client.decided)
}

func TestDecision_DecideError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, storeTicket(ctx, s, dto.Ticket{Ticket: "T1"}))
	boom := errors.New("upstream down")
	svc := newServices(t, &fakeClient{decideErr: boom})

	_, err := svc.Decision.Decide(ctx, s, dto.DecisionRequest{Authorized: true})
	assert.ErrorIs(t, err, boom)
}
