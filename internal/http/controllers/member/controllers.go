// Package member contiene los controllers de /member.
package member

import (
	authsvc "github.com/dropDatabas3/taskflow/internal/http/services/auth"
	membersvc "github.com/dropDatabas3/taskflow/internal/http/services/member"
	"github.com/dropDatabas3/taskflow/internal/http/services/session"
)

// Controllers agrupa los controllers del dominio member.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Logout   *LogoutController
	Profile  *ProfileController
}

// NewControllers crea el agregador de controllers member.
func NewControllers(auth authsvc.AuthService, sessions session.SessionService, members membersvc.MemberService) *Controllers {
	return &Controllers{
		Register: NewRegisterController(auth),
		Login:    NewLoginController(sessions),
		Logout:   NewLogoutController(sessions),
		Profile:  NewProfileController(members),
	}
}
