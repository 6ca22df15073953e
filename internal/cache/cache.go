// Package cache provee abstracciones para caching con soporte multi-backend.
//
// Soporta:
//   - Memory (in-process, go-cache; para desarrollo/testing o una sola réplica)
//   - Redis (distribuido, para producción)
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. Si ttl es 0, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX guarda el valor solo si la key no existe.
	// Retorna true si lo guardó.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete elimina una key.
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver     string // "memory" | "redis"
	Addr       string
	Password   string
	DB         int
	Prefix     string // Prefijo para todas las keys
	DefaultTTL time.Duration
}

// ErrNotFound indica que la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
// Para redis también retorna el *redis.Client subyacente (lo comparte el rate limiter);
// para memory ese valor es nil.
func New(ctx context.Context, cfg Config) (Client, *redis.Client, error) {
	switch cfg.Driver {
	case "redis":
		rc, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.client, nil
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil, nil
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
