package pg

import (
	"context"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

type identityRepo struct {
	conn *pgConnection
}

func (r *identityRepo) GetByProvider(ctx context.Context, provider types.Provider, providerID string) (*repository.ProviderIdentity, error) {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	const query = `
		SELECT provider, provider_id, member_id, created_at
		FROM member_identity
		WHERE provider = $1 AND provider_id = $2
	`
	var (
		identity repository.ProviderIdentity
		p        string
	)
	err := r.conn.pool.QueryRow(ctx, query, string(provider), providerID).Scan(
		&p, &identity.ProviderID, &identity.MemberID, &identity.CreatedAt,
	)
	if err != nil {
		return nil, classify("identity get by provider", err)
	}
	identity.Provider = types.Provider(p)
	return &identity, nil
}

func (r *identityRepo) ListByMember(ctx context.Context, memberID string) ([]repository.ProviderIdentity, error) {
	ctx, cancel := r.conn.bound(ctx)
	defer cancel()

	const query = `
		SELECT provider, provider_id, member_id, created_at
		FROM member_identity WHERE member_id = $1 ORDER BY created_at
	`
	rows, err := r.conn.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, classify("identity list by member", err)
	}
	defer rows.Close()

	var identities []repository.ProviderIdentity
	for rows.Next() {
		var (
			identity repository.ProviderIdentity
			p        string
		)
		if err := rows.Scan(&p, &identity.ProviderID, &identity.MemberID, &identity.CreatedAt); err != nil {
			return nil, classify("identity list by member: scan", err)
		}
		identity.Provider = types.Provider(p)
		identities = append(identities, identity)
	}
	return identities, classify("identity list by member: rows", rows.Err())
}
