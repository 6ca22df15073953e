// Package social resuelve un login delegado (Google, Naver, Kakao) a una cuenta local:
// intercambia el code, obtiene el perfil y vincula o crea la cuenta.
package social

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/taskflow/internal/cache"
	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
)

// SocialService autentica un callback OAuth.
type SocialService interface {
	Authenticate(ctx context.Context, provider types.Provider, code, state string) (*repository.Member, error)
}

var (
	ErrMissingAuthorizationParameter = errors.New("missing authorization code or state")
	ErrProviderNotEnabled            = errors.New("provider not enabled")
	ErrProviderExchangeFailed        = errors.New("provider code exchange failed")
	ErrProviderProfileUnavailable    = errors.New("provider profile unavailable")
	ErrAccountLinkConflict           = errors.New("email already registered with another login method")
	ErrStateReplayed                 = errors.New("authorization state already used")
)

// Deps contiene las dependencias del service.
type Deps struct {
	Members    repository.MemberRepository
	Identities repository.IdentityRepository
	Registry   *providers.Registry
	// Cache guarda los state consumidos; nil desactiva el control de replay.
	Cache    cache.Client
	StateTTL time.Duration
}

type socialService struct {
	deps   Deps
	flight singleflight.Group
}

// NewSocialService crea el service.
func NewSocialService(deps Deps) SocialService {
	if deps.StateTTL <= 0 {
		deps.StateTTL = 10 * time.Minute
	}
	if deps.Registry == nil {
		deps.Registry = providers.NewRegistry()
	}
	return &socialService{deps: deps}
}
