package token

// RefreshResponse es la respuesta de POST /auth/refresh.
// El refresh rotado viaja solo en la cookie.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
