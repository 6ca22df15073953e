// Package google implementa el login con Google (OAuth2 authorization code + userinfo).
package google

import (
	"context"
	"errors"
	"net/url"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
)

const (
	TokenEndpoint    = "https://oauth2.googleapis.com/token"
	UserInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"
)

type Provider struct {
	cfg providers.Config
}

// New valida la config y aplica los endpoints por defecto.
func New(cfg providers.Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google: client_id and client_secret required")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = TokenEndpoint
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = UserInfoEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = providers.NewHTTPClient(0)
	}
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) Name() types.Provider { return types.ProviderGoogle }
func (p *Provider) RequiresState() bool  { return false }

func (p *Provider) Exchange(ctx context.Context, code, _ string) (*providers.TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("redirect_uri", p.cfg.RedirectURI)
	return providers.ExchangeCode(ctx, p.cfg.HTTPClient, types.ProviderGoogle, p.cfg.TokenURL, form)
}

type userInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*providers.UserProfile, error) {
	var ui userInfo
	if err := providers.GetJSON(ctx, p.cfg.HTTPClient, types.ProviderGoogle, p.cfg.UserInfoURL, accessToken, &ui); err != nil {
		return nil, err
	}
	return &providers.UserProfile{
		ProviderID: ui.Sub,
		Email:      ui.Email,
		Name:       ui.Name,
		Picture:    ui.Picture,
	}, nil
}
