// Package config carga la configuración del servicio.
//
// Orden de precedencia (el último gana):
//
//  1. Defaults (Default)
//  2. Archivo YAML (opcional)
//  3. Variables de entorno (tags `env`, ver caarlos0/env)
//
// Después de mezclar todo se ejecuta Validate; una config inválida es fatal.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Security  SecurityConfig  `yaml:"security"`
	Rate      RateConfig      `yaml:"rate"`
	Providers ProvidersConfig `yaml:"providers"`
	Log       LogConfig       `yaml:"log"`
}

type AppConfig struct {
	// dev | staging | prod
	Env     string `yaml:"env" env:"APP_ENV"`
	Name    string `yaml:"name" env:"APP_NAME"`
	Version string `yaml:"version" env:"APP_VERSION"`
}

// IsProd indica si corremos en producción.
func (a AppConfig) IsProd() bool { return strings.EqualFold(a.Env, "prod") }

type ServerConfig struct {
	Addr               string        `yaml:"addr" env:"SERVER_ADDR"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins" env:"SERVER_CORS_ALLOWED_ORIGINS" envSeparator:","`
	// CIDRs o IPs de proxies cuyos X-Forwarded-For se aceptan. Vacío = ninguno.
	TrustedProxies     []string      `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
	ReadTimeout        time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout       time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout        time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

type StorageConfig struct {
	// postgres | memory
	Driver       string        `yaml:"driver" env:"STORAGE_DRIVER"`
	DSN          string        `yaml:"dsn" env:"STORAGE_DSN"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"STORAGE_MAX_OPEN_CONNS"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"STORAGE_MAX_IDLE_CONNS"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"STORAGE_QUERY_TIMEOUT"`
	// Migrate aplica migraciones al arrancar `serve`.
	Migrate bool `yaml:"migrate" env:"STORAGE_MIGRATE"`
}

type CacheConfig struct {
	// memory | redis
	Kind  string `yaml:"kind" env:"CACHE_KIND"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
	} `yaml:"redis"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL"`
}

type JWTConfig struct {
	Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	// Secret HMAC (HS512). Mínimo 64 bytes.
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
}

type AuthConfig struct {
	Cookie struct {
		Name   string `yaml:"name" env:"AUTH_COOKIE_NAME"`
		Domain string `yaml:"domain" env:"AUTH_COOKIE_DOMAIN"`
		Secure bool   `yaml:"secure" env:"AUTH_COOKIE_SECURE"`
		// Lax | Strict | None
		SameSite string `yaml:"samesite" env:"AUTH_COOKIE_SAMESITE"`
	} `yaml:"cookie"`
	// PublicPaths son los prefijos que el gate de autenticación ignora.
	PublicPaths []string `yaml:"public_paths" env:"AUTH_PUBLIC_PATHS" envSeparator:","`
}

// SameSiteMode traduce el string configurado.
func (a AuthConfig) SameSiteMode() http.SameSite {
	switch strings.ToLower(a.Cookie.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type SecurityConfig struct {
	BcryptCost     int `yaml:"bcrypt_cost" env:"SECURITY_BCRYPT_COST"`
	PasswordPolicy struct {
		MinLength     int  `yaml:"min_length" env:"SECURITY_PASSWORD_MIN_LENGTH"`
		RequireUpper  bool `yaml:"require_upper" env:"SECURITY_PASSWORD_REQUIRE_UPPER"`
		RequireLower  bool `yaml:"require_lower" env:"SECURITY_PASSWORD_REQUIRE_LOWER"`
		RequireDigit  bool `yaml:"require_digit" env:"SECURITY_PASSWORD_REQUIRE_DIGIT"`
		RequireSymbol bool `yaml:"require_symbol" env:"SECURITY_PASSWORD_REQUIRE_SYMBOL"`
	} `yaml:"password_policy"`
	PasswordBlacklistPath string `yaml:"password_blacklist_path" env:"SECURITY_PASSWORD_BLACKLIST_PATH"`
}

// Limit es un límite de rate por ventana fija.
type Limit struct {
	Limit  int           `yaml:"limit" env:"LIMIT"`
	Window time.Duration `yaml:"window" env:"WINDOW"`
}

type RateConfig struct {
	Enabled  bool  `yaml:"enabled" env:"RATE_ENABLED"`
	Login    Limit `yaml:"login" envPrefix:"RATE_LOGIN_"`
	Register Limit `yaml:"register" envPrefix:"RATE_REGISTER_"`
	OAuth    Limit `yaml:"oauth" envPrefix:"RATE_OAUTH_"`
	Refresh  Limit `yaml:"refresh" envPrefix:"RATE_REFRESH_"`
}

// OAuthProvider configura un provider de login social.
// TokenURL/UserInfoURL vacíos usan los endpoints públicos del provider.
type OAuthProvider struct {
	Enabled      bool   `yaml:"enabled" env:"ENABLED"`
	ClientID     string `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"REDIRECT_URL"`
	TokenURL     string `yaml:"token_url" env:"TOKEN_URL"`
	UserInfoURL  string `yaml:"userinfo_url" env:"USERINFO_URL"`
}

type ProvidersConfig struct {
	// Timeout de cada llamada HTTP saliente (token + userinfo). Sin reintentos.
	Timeout time.Duration `yaml:"timeout" env:"PROVIDERS_TIMEOUT"`
	// StateTTL es la ventana en la que un mismo state no puede reutilizarse.
	StateTTL time.Duration `yaml:"state_ttl" env:"PROVIDERS_STATE_TTL"`
	Google   OAuthProvider `yaml:"google" envPrefix:"GOOGLE_"`
	Naver    OAuthProvider `yaml:"naver" envPrefix:"NAVER_"`
	Kakao    OAuthProvider `yaml:"kakao" envPrefix:"KAKAO_"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// DefaultPublicPaths son los prefijos públicos por defecto.
var DefaultPublicPaths = []string{
	"/member/login",
	"/member/register",
	"/error",
	"/oauth/google",
	"/oauth/naver",
	"/oauth/kakao",
	"/auth/refresh",
	"/healthz",
	"/readyz",
	"/metrics",
}

// Default retorna la configuración base, válida salvo por JWT.Secret.
func Default() *Config {
	var c Config

	c.App.Env = "dev"
	c.App.Name = "taskflow"

	c.Server.Addr = ":8080"
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second

	c.Storage.Driver = "memory"
	c.Storage.MaxOpenConns = 10
	c.Storage.MaxIdleConns = 2
	c.Storage.QueryTimeout = 5 * time.Second

	c.Cache.Kind = "memory"
	c.Cache.Redis.Prefix = "taskflow"
	c.Cache.DefaultTTL = 5 * time.Minute

	c.JWT.Issuer = "taskflow"
	c.JWT.AccessTTL = 15 * time.Minute
	c.JWT.RefreshTTL = 7 * 24 * time.Hour

	c.Auth.Cookie.Name = "refreshToken"
	c.Auth.Cookie.Secure = true
	c.Auth.Cookie.SameSite = "Lax"
	c.Auth.PublicPaths = append([]string(nil), DefaultPublicPaths...)

	c.Security.BcryptCost = 10
	c.Security.PasswordPolicy.MinLength = 4

	c.Rate.Enabled = true
	c.Rate.Login = Limit{Limit: 10, Window: time.Minute}
	c.Rate.Register = Limit{Limit: 5, Window: 10 * time.Minute}
	c.Rate.OAuth = Limit{Limit: 20, Window: time.Minute}
	c.Rate.Refresh = Limit{Limit: 30, Window: time.Minute}

	c.Providers.Timeout = 10 * time.Second
	c.Providers.StateTTL = 10 * time.Minute

	c.Log.Level = "info"
	return &c
}

// Load aplica defaults, YAML (si path no es vacío) y env, y valida.
func Load(path string) (*Config, error) {
	c := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		// Normalizar ruta de blacklist (si relativa) respecto al directorio del YAML
		if p := strings.TrimSpace(c.Security.PasswordBlacklistPath); p != "" && !filepath.IsAbs(p) {
			c.Security.PasswordBlacklistPath = filepath.Clean(filepath.Join(filepath.Dir(path), p))
		}
	}

	// Overrides por env
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate junta todos los problemas en un solo error.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWT.Secret) < 64 {
		errs = append(errs, errors.New("jwt.secret: must be at least 64 bytes (HS512); generate one with `taskflow secret`"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("jwt: access_ttl and refresh_ttl must be positive"))
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		errs = append(errs, errors.New("jwt: access_ttl must be shorter than refresh_ttl"))
	}

	for _, tp := range c.Server.TrustedProxies {
		tp = strings.TrimSpace(tp)
		if _, err := netip.ParsePrefix(tp); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(tp); err != nil && tp != "" {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: invalid entry %q", tp))
		}
	}

	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn: required for postgres"))
		}
	case "memory":
		if c.App.IsProd() {
			errs = append(errs, errors.New("storage.driver: memory is not allowed in prod"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown %q (postgres|memory)", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("cache.redis.addr: required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unknown %q (memory|redis)", c.Cache.Kind))
	}

	switch strings.ToLower(c.Auth.Cookie.SameSite) {
	case "lax", "strict":
	case "none":
		if !c.Auth.Cookie.Secure {
			errs = append(errs, errors.New("auth.cookie: samesite=None requires secure=true"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.cookie.samesite: unknown %q", c.Auth.Cookie.SameSite))
	}
	if strings.TrimSpace(c.Auth.Cookie.Name) == "" {
		errs = append(errs, errors.New("auth.cookie.name: required"))
	}
	if c.App.IsProd() && !c.Auth.Cookie.Secure {
		errs = append(errs, errors.New("auth.cookie.secure: must be true in prod"))
	}

	for name, p := range map[string]OAuthProvider{
		"google": c.Providers.Google,
		"naver":  c.Providers.Naver,
		"kakao":  c.Providers.Kakao,
	} {
		if !p.Enabled {
			continue
		}
		if strings.TrimSpace(p.ClientID) == "" {
			errs = append(errs, fmt.Errorf("providers.%s.client_id: required when enabled", name))
		}
		// Kakao permite apps sin client secret.
		if name != "kakao" && strings.TrimSpace(p.ClientSecret) == "" {
			errs = append(errs, fmt.Errorf("providers.%s.client_secret: required when enabled", name))
		}
	}
	if c.Providers.Timeout <= 0 {
		errs = append(errs, errors.New("providers.timeout: must be positive"))
	}

	if c.Rate.Enabled {
		for name, l := range map[string]Limit{
			"login": c.Rate.Login, "register": c.Rate.Register,
			"oauth": c.Rate.OAuth, "refresh": c.Rate.Refresh,
		} {
			if l.Limit <= 0 || l.Window <= 0 {
				errs = append(errs, fmt.Errorf("rate.%s: limit and window must be positive", name))
			}
		}
	}

	return errors.Join(errs...)
}
