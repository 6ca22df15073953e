// Package memory implementa un adapter en memoria.
// Pensado para desarrollo local y tests: todos los repositorios comparten
// un único mutex, lo que hace atómicas las operaciones compuestas.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (store.AdapterConnection, error) {
	return New(), nil
}

// Conn es una conexión en memoria. El valor cero no es usable; usar New.
type Conn struct {
	mu         sync.RWMutex
	members    map[string]*repository.Member
	byEmail    map[string]string // email normalizado -> member id
	identities map[identityKey]repository.ProviderIdentity
	tokens     map[string]repository.RefreshToken
	now        func() time.Time
}

type identityKey struct {
	provider   types.Provider
	providerID string
}

// New crea un almacenamiento vacío.
func New() *Conn {
	return &Conn{
		members:    make(map[string]*repository.Member),
		byEmail:    make(map[string]string),
		identities: make(map[identityKey]repository.ProviderIdentity),
		tokens:     make(map[string]repository.RefreshToken),
		now:        time.Now,
	}
}

func (c *Conn) Name() string               { return "memory" }
func (c *Conn) Ping(context.Context) error { return nil }
func (c *Conn) Close() error               { return nil }

func (c *Conn) Members() repository.MemberRepository              { return &memberRepo{c} }
func (c *Conn) Identities() repository.IdentityRepository         { return &identityRepo{c} }
func (c *Conn) RefreshTokens() repository.RefreshTokenRepository { return &refreshTokenRepo{c} }

// CountRefreshTokens retorna cuántos registros de refresh existen para la cuenta (0 o 1).
func (c *Conn) CountRefreshTokens(memberID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.tokens[memberID]; ok {
		return 1
	}
	return 0
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func clone(m *repository.Member) *repository.Member {
	cp := *m
	if m.PasswordHash != nil {
		h := *m.PasswordHash
		cp.PasswordHash = &h
	}
	if m.LastLoginAt != nil {
		t := *m.LastLoginAt
		cp.LastLoginAt = &t
	}
	return &cp
}
