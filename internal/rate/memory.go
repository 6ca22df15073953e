package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	xrate "golang.org/x/time/rate"
)

// MemoryLimiter reparte Max eventos por Window con un token bucket por clave.
// Los buckets inactivos se descartan solos (go-cache, TTL = 2 ventanas).
type MemoryLimiter struct {
	Max    int
	Window time.Duration

	mu      sync.Mutex
	buckets *gocache.Cache
	now     func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		Max:     max,
		Window:  window,
		buckets: gocache.New(2*window, window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) bucket(key string) *xrate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		lim := v.(*xrate.Limiter)
		l.buckets.SetDefault(key, lim) // refrescar TTL
		return lim
	}
	every := l.Window / time.Duration(l.Max)
	lim := xrate.NewLimiter(xrate.Every(every), l.Max)
	l.buckets.SetDefault(key, lim)
	return lim
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()
	lim := l.bucket(key)

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Result{
			Allowed:    false,
			RetryAfter: delay,
			WindowTTL:  l.Window,
		}, nil
	}

	remaining := int64(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   true,
		Remaining: remaining,
		WindowTTL: l.Window,
	}, nil
}
