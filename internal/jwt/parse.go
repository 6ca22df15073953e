package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Errores tipados de verificación.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// Verify parsea el token, verifica firma HS512 y expiración.
// Los errores son siempre uno de ErrTokenMalformed, ErrTokenSignatureInvalid
// o ErrTokenExpired (con la causa original envuelta).
func (s *Service) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenMalformed
	}

	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwtv5.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenMalformed) && badSignatureSegment(raw) {
			return nil, fmt.Errorf("%w: %w", ErrTokenSignatureInvalid, err)
		}
		return nil, classify(err)
	}
	return claims, nil
}

// VerifyAccess es Verify + exige token_use=access.
func (s *Service) VerifyAccess(raw string) (*Claims, error) {
	return s.verifyUse(raw, UseAccess)
}

// VerifyRefresh es Verify + exige token_use=refresh.
func (s *Service) VerifyRefresh(raw string) (*Claims, error) {
	return s.verifyUse(raw, UseRefresh)
}

func (s *Service) verifyUse(raw, use string) (*Claims, error) {
	c, err := s.Verify(raw)
	if err != nil {
		return nil, err
	}
	if c.Use != use {
		return nil, fmt.Errorf("%w: token_use %q, want %q", ErrTokenMalformed, c.Use, use)
	}
	return c, nil
}

// IsValid colapsa cualquier falla de Verify a false.
func (s *Service) IsValid(raw string) bool {
	_, err := s.Verify(raw)
	return err == nil
}

// Claim lee un claim sin volver a verificar la firma.
// Solo debe usarse con tokens que ya pasaron Verify.
func (s *Service) Claim(raw, name string) (any, bool) {
	mc := jwtv5.MapClaims{}
	if _, _, err := jwtv5.NewParser().ParseUnverified(raw, mc); err != nil {
		return nil, false
	}
	v, ok := mc[name]
	return v, ok
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}

// badSignatureSegment: header y payload decodifican pero la firma no es
// base64url canónico (bits de relleno alterados).
func badSignatureSegment(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return false
	}
	enc := base64.RawURLEncoding.Strict()
	if _, err := enc.DecodeString(parts[0]); err != nil {
		return false
	}
	if _, err := enc.DecodeString(parts[1]); err != nil {
		return false
	}
	_, err := enc.DecodeString(parts[2])
	return err != nil
}
