// Package auth contiene la autenticación por credenciales (email + password)
// y el alta de cuentas locales.
package auth

import (
	"context"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/security/password"
)

// AuthService autentica y registra cuentas locales.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*repository.Member, error)
	Register(ctx context.Context, in RegisterInput) (*repository.Member, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Members repository.MemberRepository
	Hasher  *password.Hasher
	Policy  password.Policy
}

// RegisterInput son los datos de alta de una cuenta local.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Address  string
	Phone    string
}

type authService struct {
	deps Deps
}

// NewAuthService crea el service. Sin Hasher usa bcrypt con costo por defecto.
func NewAuthService(deps Deps) AuthService {
	if deps.Hasher == nil {
		deps.Hasher = password.NewHasher(0)
	}
	return &authService{deps: deps}
}
