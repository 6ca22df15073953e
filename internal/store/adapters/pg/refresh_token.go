package pg

import (
	"context"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
)

type refreshTokenRepo struct {
	conn *pgConnection
}

func (r *refreshTokenRepo) Upsert(ctx context.Context, token repository.RefreshToken) error {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	const stmt = `
		INSERT INTO refresh_token (member_id, token_hash, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (member_id) DO UPDATE
		SET token_hash = EXCLUDED.token_hash,
		    issued_at  = EXCLUDED.issued_at,
		    expires_at = EXCLUDED.expires_at
	`
	_, err := r.conn.pool.Exec(ctx, stmt, token.MemberID, token.TokenHash, token.IssuedAt.UTC(), token.ExpiresAt.UTC())
	return classify("refresh token upsert", err)
}

func (r *refreshTokenRepo) GetByMember(ctx context.Context, memberID string) (*repository.RefreshToken, error) {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	var rt repository.RefreshToken
	err := r.conn.pool.QueryRow(ctx,
		`SELECT member_id, token_hash, issued_at, expires_at FROM refresh_token WHERE member_id = $1`,
		memberID,
	).Scan(&rt.MemberID, &rt.TokenHash, &rt.IssuedAt, &rt.ExpiresAt)
	if err != nil {
		return nil, classify("refresh token get", err)
	}
	return &rt, nil
}

func (r *refreshTokenRepo) Delete(ctx context.Context, memberID string) error {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	_, err := r.conn.pool.Exec(ctx, `DELETE FROM refresh_token WHERE member_id = $1`, memberID)
	return classify("refresh token delete", err)
}
