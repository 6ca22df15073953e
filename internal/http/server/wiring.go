// Package server arma las dependencias del servicio y el http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/taskflow/internal/cache"
	"github.com/dropDatabas3/taskflow/internal/config"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/admin"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/health"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/member"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/oauth"
	"github.com/dropDatabas3/taskflow/internal/http/controllers/token"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	mw "github.com/dropDatabas3/taskflow/internal/http/middlewares"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
	"github.com/dropDatabas3/taskflow/internal/http/providers/google"
	"github.com/dropDatabas3/taskflow/internal/http/providers/kakao"
	"github.com/dropDatabas3/taskflow/internal/http/providers/naver"
	"github.com/dropDatabas3/taskflow/internal/http/router"
	authsvc "github.com/dropDatabas3/taskflow/internal/http/services/auth"
	membersvc "github.com/dropDatabas3/taskflow/internal/http/services/member"
	"github.com/dropDatabas3/taskflow/internal/http/services/session"
	"github.com/dropDatabas3/taskflow/internal/http/services/social"
	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
	"github.com/dropDatabas3/taskflow/internal/metrics"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
	"github.com/dropDatabas3/taskflow/internal/rate"
	"github.com/dropDatabas3/taskflow/internal/security/password"
	"github.com/dropDatabas3/taskflow/internal/store"

	// Registran los adapters vía init()
	_ "github.com/dropDatabas3/taskflow/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/taskflow/internal/store/adapters/pg"
)

// App es el servicio armado: handler raíz más los recursos a cerrar.
type App struct {
	Handler http.Handler
	Store   store.AdapterConnection
	Cache   cache.Client

	closers []func() error
}

// Close libera los recursos en orden inverso al de creación.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Build construye todas las dependencias a partir de la config.
// Si falla a mitad de camino cierra lo que ya abrió.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logger.L().With(logger.Component("wiring"))
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	// 1. Store
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
		QueryTimeout: cfg.Storage.QueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.Store = conn
	app.closers = append(app.closers, conn.Close)
	log.Info("store ready", logger.String("driver", conn.Name()))

	// 2. Cache (+ cliente redis compartido con el rate limiter)
	cc, rdb, err := cache.New(ctx, cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.Cache.DefaultTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	app.Cache = cc
	app.closers = append(app.closers, cc.Close)
	log.Info("cache ready", logger.String("kind", cfg.Cache.Kind))

	// 3. Tokens
	tokens, err := jwtx.NewService(jwtx.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	// 4. Password policy
	policy := password.Policy{
		MinLength:     cfg.Security.PasswordPolicy.MinLength,
		RequireUpper:  cfg.Security.PasswordPolicy.RequireUpper,
		RequireLower:  cfg.Security.PasswordPolicy.RequireLower,
		RequireDigit:  cfg.Security.PasswordPolicy.RequireDigit,
		RequireSymbol: cfg.Security.PasswordPolicy.RequireSymbol,
	}
	if p := cfg.Security.PasswordBlacklistPath; p != "" {
		bl, err := password.LoadBlacklist(p)
		if err != nil {
			return nil, fmt.Errorf("password blacklist: %w", err)
		}
		policy.Blacklist = bl
		log.Info("password blacklist loaded", logger.Int("entries", bl.Len()))
	}

	// 5. Providers
	registry, err := buildProviders(cfg.Providers)
	if err != nil {
		return nil, err
	}
	log.Info("oauth providers", logger.Any("enabled", registry.Enabled()))

	// 6. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 7. Services
	authService := authsvc.NewAuthService(authsvc.Deps{
		Members: conn.Members(),
		Hasher:  password.NewHasher(cfg.Security.BcryptCost),
		Policy:  policy,
	})
	socialService := social.NewSocialService(social.Deps{
		Members:    conn.Members(),
		Identities: conn.Identities(),
		Registry:   registry,
		Cache:      cc,
		StateTTL:   cfg.Providers.StateTTL,
	})
	sessions := session.NewSessionService(session.Deps{
		Auth:          authService,
		Social:        socialService,
		Members:       conn.Members(),
		RefreshTokens: conn.RefreshTokens(),
		Tokens:        tokens,
		Cookie: session.CookieConfig{
			Name:     cfg.Auth.Cookie.Name,
			Domain:   cfg.Auth.Cookie.Domain,
			Secure:   cfg.Auth.Cookie.Secure,
			SameSite: cfg.Auth.SameSiteMode(),
		},
		Metrics: m,
	})
	members := membersvc.NewMemberService(membersvc.Deps{
		Members:  conn.Members(),
		Sessions: sessions,
	})

	// 8. Router
	trusted, err := helpers.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server.trusted_proxies: %w", err)
	}
	app.Handler = router.New(router.Deps{
		Member:   member.NewControllers(authService, sessions, members),
		Callback: oauth.NewCallbackController(sessions),
		Refresh:  token.NewRefreshController(sessions, cfg.Auth.Cookie.Name),
		Status:   admin.NewStatusController(members),
		Health: health.NewHealthController(0,
			health.Check{Name: "store", Ping: conn.Ping},
			health.Check{Name: "cache", Ping: cc.Ping},
		),
		Gate:        mw.NewGate(tokens, cfg.Auth.PublicPaths),
		Metrics:     m,
		Limiters:    buildLimiters(cfg, rdb),
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		TrustedProxies: trusted,
	})
	return app, nil
}

// buildProviders instancia los providers habilitados.
func buildProviders(cfg config.ProvidersConfig) (*providers.Registry, error) {
	client := providers.NewHTTPClient(cfg.Timeout)
	pc := func(p config.OAuthProvider) providers.Config {
		return providers.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURI:  p.RedirectURL,
			TokenURL:     p.TokenURL,
			UserInfoURL:  p.UserInfoURL,
			HTTPClient:   client,
		}
	}

	registry := providers.NewRegistry()
	if cfg.Google.Enabled {
		p, err := google.New(pc(cfg.Google))
		if err != nil {
			return nil, err
		}
		registry.Register(p)
	}
	if cfg.Naver.Enabled {
		p, err := naver.New(pc(cfg.Naver))
		if err != nil {
			return nil, err
		}
		registry.Register(p)
	}
	if cfg.Kakao.Enabled {
		p, err := kakao.New(pc(cfg.Kakao))
		if err != nil {
			return nil, err
		}
		registry.Register(p)
	}
	return registry, nil
}

// buildLimiters usa redis (ventana fija compartida) si hay cliente; si no, buckets en memoria.
func buildLimiters(cfg *config.Config, rdb *redis.Client) router.Limiters {
	if !cfg.Rate.Enabled {
		return router.Limiters{}
	}
	mk := func(l config.Limit) rate.Limiter {
		if rdb != nil {
			return rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix+":rl:", l.Limit, l.Window)
		}
		return rate.NewMemoryLimiter(l.Limit, l.Window)
	}
	return router.Limiters{
		Login:    mk(cfg.Rate.Login),
		Register: mk(cfg.Rate.Register),
		OAuth:    mk(cfg.Rate.OAuth),
		Refresh:  mk(cfg.Rate.Refresh),
	}
}
