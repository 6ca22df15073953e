// Package naver implementa Naver Login. Naver exige el state en el exchange.
package naver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
)

const (
	TokenEndpoint   = "https://nid.naver.com/oauth2.0/token"
	ProfileEndpoint = "https://openapi.naver.com/v1/nid/me"
)

type Provider struct {
	cfg providers.Config
}

func New(cfg providers.Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("naver: client_id and client_secret required")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = TokenEndpoint
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = ProfileEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = providers.NewHTTPClient(0)
	}
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) Name() types.Provider { return types.ProviderNaver }
func (p *Provider) RequiresState() bool  { return true }

func (p *Provider) Exchange(ctx context.Context, code, state string) (*providers.TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("state", state)
	return providers.ExchangeCode(ctx, p.cfg.HTTPClient, types.ProviderNaver, p.cfg.TokenURL, form)
}

// profileResponse: {"resultcode":"00","message":"success","response":{...}}
type profileResponse struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*providers.UserProfile, error) {
	var pr profileResponse
	if err := providers.GetJSON(ctx, p.cfg.HTTPClient, types.ProviderNaver, p.cfg.UserInfoURL, accessToken, &pr); err != nil {
		return nil, err
	}
	if pr.ResultCode != "" && pr.ResultCode != "00" {
		return nil, &providers.UpstreamError{
			Provider: types.ProviderNaver,
			Op:       "userinfo",
			Status:   http.StatusOK,
			Err:      fmt.Errorf("resultcode %s: %s", pr.ResultCode, pr.Message),
		}
	}

	name := pr.Response.Name
	if name == "" {
		name = pr.Response.Nickname
	}
	return &providers.UserProfile{
		ProviderID: pr.Response.ID,
		Email:      pr.Response.Email,
		Name:       name,
		Picture:    pr.Response.ProfileImage,
	}, nil
}
