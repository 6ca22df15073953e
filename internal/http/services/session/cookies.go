package session

import (
	"net/http"
	"time"
)

// RefreshCookie arma la cookie del refresh token: HttpOnly, Path "/",
// MaxAge hasta la expiración del token.
func (s *sessionService) RefreshCookie(token string, expiresAt time.Time) *http.Cookie {
	maxAge := int(expiresAt.Sub(s.deps.Now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     s.deps.Cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   s.deps.Cookie.Domain,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.deps.Cookie.Secure,
		SameSite: s.deps.Cookie.SameSite,
	}
}

// ClearCookie arma la cookie que borra el refresh token en el navegador.
func (s *sessionService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.deps.Cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.deps.Cookie.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.deps.Cookie.Secure,
		SameSite: s.deps.Cookie.SameSite,
	}
}
