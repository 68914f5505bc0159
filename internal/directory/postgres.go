package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/authzserver/internal/security/password"
)

// PGConfig configura el pool.
type PGConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// Postgres lee la tabla directory_user.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Directory = (*Postgres)(nil)

// OpenPostgres crea el pool y verifica la conexión.
func OpenPostgres(ctx context.Context, cfg PGConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("directory: parse DSN: %w", err)
	}
	poolCfg.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("directory: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("directory: ping failed: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgres usa un pool existente.
func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{pool: pool} }

// Pool expone el pool para migraciones.
func (p *Postgres) Pool() *pgxpool.Pool { return p.pool }

const lookupSQL = `
SELECT subject, login_id, password_hash,
       COALESCE(name, ''), COALESCE(email, ''), COALESCE(country, ''), COALESCE(phone_number, '')
FROM directory_user
WHERE login_id = $1 AND disabled_at IS NULL`

func (p *Postgres) LookupByCredentials(ctx context.Context, loginID, pwd string) (User, bool, error) {
	var (
		u       User
		hash    string
		country string
	)
	err := p.pool.QueryRow(ctx, lookupSQL, loginID).Scan(
		&u.Subject, &u.LoginID, &hash, &u.Name, &u.Email, &country, &u.PhoneNumber,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !password.Verify(pwd, hash) {
		return User{}, false, nil
	}
	if country != "" {
		u.Address = &Address{Country: country}
	}
	return u, true, nil
}

const upsertSQL = `
INSERT INTO directory_user (subject, login_id, password_hash, name, email, country, phone_number)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
ON CONFLICT (subject) DO UPDATE SET
    login_id = EXCLUDED.login_id,
    password_hash = EXCLUDED.password_hash,
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    country = EXCLUDED.country,
    phone_number = EXCLUDED.phone_number`

// Upsert crea o actualiza un usuario con un hash PHC ya calculado.
func (p *Postgres) Upsert(ctx context.Context, u User, passwordHash string) error {
	country := ""
	if u.Address != nil {
		country = u.Address.Country
	}
	_, err := p.pool.Exec(ctx, upsertSQL, u.Subject, u.LoginID, passwordHash, u.Name, u.Email, country, u.PhoneNumber)
	if err != nil {
		return fmt.Errorf("directory: upsert %s: %w", u.Subject, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *Postgres) Close() { p.pool.Close() }
