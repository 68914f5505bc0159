package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/security/password"
)

var fastParams = password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 16}

func TestMemory_LookupByCredentials(t *testing.T) {
	dir, err := NewMemory(fastParams, DemoSeeds())
	require.NoError(t, err)
	ctx := context.Background()

	u, ok, err := dir.LookupByCredentials(ctx, "john", "john")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1001", u.Subject)
	assert.Equal(t, "John Smith", u.Name)

	u, ok, err = dir.LookupByCredentials(ctx, "jane", "jane")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1002", u.Subject)

	for _, c := range [][2]string{{"john", "jane"}, {"nobody", "john"}, {"", ""}, {"JOHN", "john"}} {
		_, ok, err := dir.LookupByCredentials(ctx, c[0], c[1])
		require.NoError(t, err)
		assert.False(t, ok, c)
	}
}

func TestMemory_PrehashedSeed(t *testing.T) {
	phc, err := password.Hash(fastParams, "s3cret")
	require.NoError(t, err)
	dir, err := NewMemory(fastParams, []Seed{{User: User{Subject: "9", LoginID: "ops"}, PasswordHash: phc}})
	require.NoError(t, err)

	_, ok, _ := dir.LookupByCredentials(context.Background(), "ops", "s3cret")
	assert.True(t, ok)
}

func TestMemory_InvalidSeeds(t *testing.T) {
	_, err := NewMemory(fastParams, []Seed{{User: User{LoginID: "x"}, Password: "x"}})
	assert.Error(t, err)

	dup := DemoSeeds()
	dup[1].LoginID = "john"
	_, err = NewMemory(fastParams, dup)
	assert.Error(t, err)
}

func TestUser_Claims(t *testing.T) {
	u := DemoSeeds()[0].User
	got := u.Claims([]string{"name", "email", "address", "phone_number", "sub", "birthdate"})
	assert.Equal(t, map[string]any{
		"name":         "John Smith",
		"email":        "john@example.com",
		"address":      Address{Country: "USA"},
		"phone_number": "+1 (425) 555-1212",
		"sub":          "1001",
	}, got)

	assert.Empty(t, User{Subject: "x"}.Claims([]string{"name", "address"}))
}
