// Package rate implementa rate limiting por clave (IP, IP+ruta).
//
// Dos backends:
//   - RedisLimiter: fixed window compartido entre réplicas.
//   - MemoryLimiter: token bucket (x/time/rate) por proceso.
package rate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter cuenta hits por ventana fija en redis. La clave lleva el
// inicio de la ventana, así que cada ventana arranca en cero.
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration

	now func() time.Time
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		Client: client,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.Window)
	winEnd := winStart.Add(l.Window)
	redisKey := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	// INCR y EXPIREAT en la misma transacción: la clave nunca queda sin TTL.
	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	expire := pipe.ExpireAt(ctx, redisKey, winEnd.Add(time.Second))
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}
	if err := expire.Err(); err != nil {
		logger.From(ctx).Warn("rate window expire failed",
			logger.Component("rate"), logger.String("key", redisKey), logger.Err(err))
	}

	return windowResult(incr.Val(), l.Max, now, winEnd), nil
}

// windowResult arma el Result de una ventana fija que termina en winEnd.
func windowResult(hits, max int64, now, winEnd time.Time) Result {
	left := winEnd.Sub(now)
	if left <= 0 {
		left = time.Second
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   max - hits,
		CurrentHits: hits,
		WindowTTL:   left,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(math.Ceil(left.Seconds())) * time.Second
	}
	return res
}
