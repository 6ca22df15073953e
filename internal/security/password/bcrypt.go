// Package password hashea y verifica passwords con bcrypt y aplica la
// política de registro.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes es el máximo que bcrypt considera; el resto se ignoraría en silencio.
const MaxBytes = 72

// ErrTooLong se retorna al hashear un password de más de MaxBytes.
var ErrTooLong = errors.New("password: longer than 72 bytes")

// Hasher envuelve bcrypt con un costo configurable.
type Hasher struct {
	Cost  int
	dummy []byte
}

// NewHasher crea un hasher. cost fuera de rango cae a bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &Hasher{Cost: cost}
	// Hash de referencia para igualar tiempos cuando la cuenta no existe.
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte("taskflow-dummy-password"), cost)
	return h
}

// Hash genera un hash bcrypt con salt aleatorio.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxBytes {
		return "", ErrTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara en tiempo constante. Hash vacío o inválido → false.
func (h *Hasher) Verify(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyDummy consume el mismo tiempo que una verificación real y siempre
// retorna false. Se usa cuando el email no existe.
func (h *Hasher) VerifyDummy(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
	return false
}
