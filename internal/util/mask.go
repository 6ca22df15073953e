// Package util contiene helpers chicos sin dependencias del dominio.
package util

import "strings"

// MaskEmail oculta el email para logs: conserva la primera letra del usuario y
// el dominio completo ("alice@example.com" -> "a***@example.com").
// Un valor sin "@" se enmascara entero salvo su primera letra.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	user, domain, ok := strings.Cut(s, "@")
	if !ok || user == "" {
		return s[:1] + "***"
	}
	return user[:1] + "***@" + domain
}
