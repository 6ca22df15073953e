package jwt

import (
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

// Claims son los claims propios + los registrados (sub, iss, iat, exp, jti).
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Use   string `json:"token_use"`
	jwtv5.RegisteredClaims
}

// Username retorna el subject (username de la cuenta).
func (c *Claims) Username() string { return c.Subject }

// RoleValue retorna el rol tipado; vacío en refresh tokens.
func (c *Claims) RoleValue() types.Role { return types.Role(c.Role) }
