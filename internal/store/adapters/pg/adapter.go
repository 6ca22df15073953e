// Package pg implementa el adapter PostgreSQL.
// Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// uniqueViolation es el SQLSTATE de una violación de UNIQUE / PRIMARY KEY.
const uniqueViolation = "23505"

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}
	if poolCfg.ConnConfig.ConnectTimeout == 0 {
		poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w: %w", repository.ErrStoreUnavailable, err)
	}

	return &pgConnection{pool: pool, timeout: cfg.QueryTimeout}, nil
}

// pgConnection representa una conexión activa a PostgreSQL.
type pgConnection struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pg: ping: %w: %w", repository.ErrStoreUnavailable, err)
	}
	return nil
}

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

// ─── Repositorios ───

func (c *pgConnection) Members() repository.MemberRepository     { return &memberRepo{conn: c} }
func (c *pgConnection) Identities() repository.IdentityRepository { return &identityRepo{conn: c} }
func (c *pgConnection) RefreshTokens() repository.RefreshTokenRepository {
	return &refreshTokenRepo{conn: c}
}

// bound aplica el timeout por operación configurado.
func (c *pgConnection) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// classify traduce errores de pgx a errores de dominio.
//
//	pgx.ErrNoRows          -> repository.ErrNotFound
//	23505 unique_violation -> repository.ErrConflict
//	resto                  -> repository.ErrStoreUnavailable (conserva la causa)
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("pg: %s: %w (%s)", op, repository.ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("pg: %s: %w: %w", op, repository.ErrStoreUnavailable, err)
}
