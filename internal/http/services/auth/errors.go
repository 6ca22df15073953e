package auth

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
)

// PolicyError lleva los motivos por los que el password fue rechazado.
// errors.Is(err, ErrWeakPassword) es true.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string {
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Reasons, ",")
}

func (e *PolicyError) Is(target error) bool { return target == ErrWeakPassword }
