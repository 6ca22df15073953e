package member

import "github.com/dropDatabas3/taskflow/internal/domain/repository"

// RegisterRequest es el body de POST /member/register.
// "name" se guarda como username.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// RegisterResponse es la respuesta de un registro exitoso.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// LoginRequest es el body de POST /member/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse también la usa el callback OAuth.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	Member      MemberResponse `json:"member"`
}

// MemberResponse es la vista pública de una cuenta.
type MemberResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	ProfileImage string `json:"profileImage"`
	Provider     string `json:"provider"`
	Role         string `json:"role"`
}

// FromMember arma la vista pública. Nunca incluye el hash del password.
func FromMember(m *repository.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		Phone:        m.Phone,
		Address:      m.Address,
		ProfileImage: m.ProfileImage,
		Provider:     string(m.Provider),
		Role:         string(m.Role),
	}
}

// LogoutResponse es la respuesta de /member/logout y /auth/logout.
type LogoutResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
