// Package types define tipos de dominio compartidos entre paquetes.
package types

import "strings"

// Provider identifica el origen de una identidad.
type Provider string

const (
	// ProviderLocal es una cuenta con email + password.
	ProviderLocal Provider = "LOCAL"
	// ProviderGoogle usa Google OAuth2.
	ProviderGoogle Provider = "GOOGLE"
	// ProviderNaver usa Naver Login.
	ProviderNaver Provider = "NAVER"
	// ProviderKakao usa Kakao Login.
	ProviderKakao Provider = "KAKAO"
)

// IsValid retorna true si el provider es conocido.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderLocal, ProviderGoogle, ProviderNaver, ProviderKakao:
		return true
	}
	return false
}

// IsFederated retorna true para providers externos (todo menos LOCAL).
func (p Provider) IsFederated() bool {
	return p.IsValid() && p != ProviderLocal
}

// Slug es la forma en minúsculas usada en paths (/oauth/{slug}/callback).
func (p Provider) Slug() string {
	return strings.ToLower(string(p))
}

// ParseProvider acepta "google", "GOOGLE", " Naver " etc.
// Retorna false si el valor no corresponde a un provider conocido.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", false
	}
	return p, true
}
