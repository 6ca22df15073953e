package pg

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

const memberColumns = `id, email, username, password_hash, address, phone, profile_image,
	provider, role, is_active, created_at, updated_at, last_login_at`

type memberRepo struct {
	conn *pgConnection
}

// rowScanner cubre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*repository.Member, error) {
	var (
		m        repository.Member
		provider string
		role     string
	)
	if err := row.Scan(
		&m.ID, &m.Email, &m.Username, &m.PasswordHash, &m.Address, &m.Phone, &m.ProfileImage,
		&provider, &role, &m.Active, &m.CreatedAt, &m.UpdatedAt, &m.LastLoginAt,
	); err != nil {
		return nil, err
	}
	m.Provider = types.Provider(provider)
	m.Role = types.Role(role)
	return &m, nil
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*repository.Member, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	row := r.conn.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM member WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		return nil, classify("member get by id", err)
	}
	return m, nil
}

func (r *memberRepo) GetByEmail(ctx context.Context, email string) (*repository.Member, error) {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	row := r.conn.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM member WHERE lower(email) = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	m, err := scanMember(row)
	if err != nil {
		return nil, classify("member get by email", err)
	}
	return m, nil
}

func (r *memberRepo) Create(ctx context.Context, input repository.CreateMemberInput) (*repository.Member, error) {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	m, err := insertMember(ctx, r.conn.pool, input)
	if err != nil {
		return nil, classify("member create", err)
	}
	return m, nil
}

func (r *memberRepo) CreateWithIdentity(ctx context.Context, input repository.CreateMemberInput, identity repository.CreateIdentityInput) (*repository.Member, error) {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	tx, err := r.conn.pool.Begin(ctx)
	if err != nil {
		return nil, classify("member create with identity: begin", err)
	}
	defer tx.Rollback(ctx)

	m, err := insertMember(ctx, tx, input)
	if err != nil {
		return nil, classify("member create with identity: member", err)
	}

	const q = `INSERT INTO member_identity (provider, provider_id, member_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, q, string(identity.Provider), identity.ProviderID, m.ID, m.CreatedAt); err != nil {
		return nil, classify("member create with identity: identity", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify("member create with identity: commit", err)
	}
	return m, nil
}

func (r *memberRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	_, err := r.conn.pool.Exec(ctx,
		`UPDATE member SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, at.UTC())
	return classify("member touch last login", err)
}

func (r *memberRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	tag, err := r.conn.pool.Exec(ctx,
		`UPDATE member SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return classify("member set active", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// querier cubre pgxpool.Pool y pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertMember(ctx context.Context, q querier, in repository.CreateMemberInput) (*repository.Member, error) {
	role := in.Role
	if role == "" {
		role = types.RoleUser
	}
	provider := in.Provider
	if provider == "" {
		provider = types.ProviderLocal
	}
	now := time.Now().UTC()

	const stmt = `
		INSERT INTO member (id, email, username, password_hash, address, phone, profile_image,
			provider, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $10)
		RETURNING ` + memberColumns

	return scanMember(q.QueryRow(ctx, stmt,
		uuid.NewString(),
		strings.ToLower(strings.TrimSpace(in.Email)),
		in.Username,
		in.PasswordHash,
		in.Address,
		in.Phone,
		in.ProfileImage,
		string(provider),
		string(role),
		now,
	))
}
