package directory

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/security/password"
	migrations "github.com/dropDatabas3/authzserver/migrations/postgres"
)

func TestMigrator_ParseMigrations(t *testing.T) {
	migs, err := NewMigrator(migrations.DirectoryFS, migrations.DirectoryDir).ParseMigrations()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "directory_user", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS directory_user")
}

// Requiere AUTHZ_TEST_PG_DSN apuntando a una base descartable.
func TestPostgres_LookupByCredentials(t *testing.T) {
	dsn := os.Getenv("AUTHZ_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("AUTHZ_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := OpenPostgres(ctx, PGConfig{DSN: dsn})
	require.NoError(t, err)
	defer pg.Close()

	_, err = NewMigrator(migrations.DirectoryFS, migrations.DirectoryDir).Run(ctx, pg.Pool())
	require.NoError(t, err)
	// segunda corrida: todo skip
	res, err := NewMigrator(migrations.DirectoryFS, migrations.DirectoryDir).Run(ctx, pg.Pool())
	require.NoError(t, err)
	assert.Empty(t, res.Applied)

	phc, err := password.Hash(fastParams, "john")
	require.NoError(t, err)
	john := DemoSeeds()[0].User
	require.NoError(t, pg.Upsert(ctx, john, phc))

	u, ok, err := pg.LookupByCredentials(ctx, "john", "john")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, john, u)

	_, ok, err = pg.LookupByCredentials(ctx, "john", "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = pg.LookupByCredentials(ctx, "ghost", "john")
	require.NoError(t, err)
	assert.False(t, ok)
}
