package types

// Role es el rol de autorización de una cuenta.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid retorna true si el rol es conocido.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Authority retorna la authority derivada del rol ("ROLE_USER", "ROLE_ADMIN").
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}
