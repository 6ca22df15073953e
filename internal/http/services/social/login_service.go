package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// Authenticate ejecuta el callback OAuth. Callbacks concurrentes con el mismo
// (provider, code, state) comparten un único exchange; un state distinto
// pasa siempre por su propio chequeo.
func (s *socialService) Authenticate(ctx context.Context, provider types.Provider, code, state string) (*repository.Member, error) {
	code = strings.TrimSpace(code)
	state = strings.TrimSpace(state)
	if code == "" {
		return nil, ErrMissingAuthorizationParameter
	}

	p, ok := s.deps.Registry.Get(provider)
	if !ok {
		return nil, ErrProviderNotEnabled
	}
	if p.RequiresState() && state == "" {
		return nil, ErrMissingAuthorizationParameter
	}

	key := provider.Slug() + "|" + code + "|" + state
	v, err, shared := s.flight.Do(key, func() (any, error) {
		// El primer caller no debe cancelar el exchange de los demás.
		return s.authenticate(context.WithoutCancel(ctx), p, code, state)
	})
	if shared {
		logger.From(ctx).Debug("oauth callback deduplicated",
			logger.Layer("service"), logger.Component("social"), logger.Provider(provider.Slug()))
	}
	if err != nil {
		return nil, err
	}
	return v.(*repository.Member), nil
}

func (s *socialService) authenticate(ctx context.Context, p providers.Provider, code, state string) (*repository.Member, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social"),
		logger.Op("Authenticate"),
		logger.Provider(p.Name().Slug()),
	)

	if err := s.consumeState(ctx, p.Name(), state); err != nil {
		return nil, err
	}

	prof, err := providers.ExchangeAndFetchProfile(ctx, p, code, state)
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrExchangeFailed):
			log.Warn("code exchange failed", logger.Err(err))
			return nil, fmt.Errorf("%w: %w", ErrProviderExchangeFailed, err)
		default:
			log.Warn("profile fetch failed", logger.Err(err))
			return nil, fmt.Errorf("%w: %w", ErrProviderProfileUnavailable, err)
		}
	}

	m, err := s.resolve(ctx, p.Name(), prof)
	if err != nil {
		return nil, err
	}
	log.Info("federated login resolved", logger.MemberID(m.ID))
	return m, nil
}

// consumeState marca el state como usado. Si la cache falla se sigue adelante:
// el code OAuth es de un solo uso en el provider.
func (s *socialService) consumeState(ctx context.Context, provider types.Provider, state string) error {
	if state == "" || s.deps.Cache == nil {
		return nil
	}
	fresh, err := s.deps.Cache.SetNX(ctx, "oauth:state:"+provider.Slug()+":"+state, "1", s.deps.StateTTL)
	if err != nil {
		logger.From(ctx).Warn("state replay guard unavailable",
			logger.Component("social"), logger.Err(err))
		return nil
	}
	if !fresh {
		return ErrStateReplayed
	}
	return nil
}

// resolve vincula el perfil con una cuenta:
//  1. identidad conocida → su cuenta (deshabilitada → auth.ErrAccountDisabled)
//  2. email ya registrado → ErrAccountLinkConflict (no se vincula automáticamente)
//  3. si no, se crea cuenta + identidad en una transacción
func (s *socialService) resolve(ctx context.Context, provider types.Provider, prof *providers.UserProfile) (*repository.Member, error) {
	m, err := s.memberByIdentity(ctx, provider, prof.ProviderID)
	if err == nil {
		if !m.Active {
			return nil, auth.ErrAccountDisabled
		}
		return m, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.deps.Members.GetByEmail(ctx, prof.Email); err == nil {
		return nil, ErrAccountLinkConflict
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("social: lookup email: %w", err)
	}

	m, err = s.deps.Members.CreateWithIdentity(ctx,
		repository.CreateMemberInput{
			Email:        prof.Email,
			Username:     displayName(prof),
			ProfileImage: prof.Picture,
			Provider:     provider,
			Role:         types.RoleUser,
		},
		repository.CreateIdentityInput{Provider: provider, ProviderID: prof.ProviderID},
	)
	if err == nil {
		return m, nil
	}
	if !repository.IsConflict(err) {
		return nil, fmt.Errorf("social: create member: %w", err)
	}

	// Otro callback creó la cuenta en paralelo: una sola relectura.
	m, err = s.memberByIdentity(ctx, provider, prof.ProviderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAccountLinkConflict
		}
		return nil, err
	}
	if !m.Active {
		return nil, auth.ErrAccountDisabled
	}
	return m, nil
}

func (s *socialService) memberByIdentity(ctx context.Context, provider types.Provider, providerID string) (*repository.Member, error) {
	id, err := s.deps.Identities.GetByProvider(ctx, provider, providerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("social: lookup identity: %w", err)
	}
	m, err := s.deps.Members.GetByID(ctx, id.MemberID)
	if err != nil {
		return nil, fmt.Errorf("social: lookup member %s: %w", id.MemberID, err)
	}
	return m, nil
}

func displayName(p *providers.UserProfile) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	if at := strings.IndexByte(p.Email, '@'); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}
