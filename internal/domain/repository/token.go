package repository

import (
	"context"
	"time"
)

// RefreshToken es el único refresh token vigente de una cuenta.
// Solo se guarda el hash del token.
type RefreshToken struct {
	MemberID  string
	TokenHash string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshTokenRepository define operaciones sobre refresh tokens.
type RefreshTokenRepository interface {
	// Upsert guarda el token de la cuenta reemplazando cualquier registro previo.
	// Dos escrituras concurrentes: gana la última.
	Upsert(ctx context.Context, token RefreshToken) error

	// GetByMember retorna el token vigente de la cuenta.
	// Retorna ErrNotFound si no hay registro.
	GetByMember(ctx context.Context, memberID string) (*RefreshToken, error)

	// Delete elimina el registro de la cuenta. No falla si no existía.
	Delete(ctx context.Context, memberID string) error
}
