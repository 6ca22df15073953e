// Package kakao implementa Kakao Login. El client_secret es opcional en Kakao.
package kakao

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
)

const (
	TokenEndpoint   = "https://kauth.kakao.com/oauth/token"
	ProfileEndpoint = "https://kapi.kakao.com/v2/user/me"
)

type Provider struct {
	cfg providers.Config
}

func New(cfg providers.Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("kakao: client_id (REST API key) required")
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

func (p *Provider) Name() types.Provider { return types.ProviderKakao }
func (p *Provider) RequiresState() bool  { return false }

func (p *Provider) Exchange(ctx context.Context, code, _ string) (*providers.TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("redirect_uri", p.cfg.RedirectURI)
	form.Set("code", code)
	if p.cfg.ClientSecret != "" {
		form.Set("client_secret", p.cfg.ClientSecret)
	}
	return providers.ExchangeCode(ctx, p.cfg.HTTPClient, types.ProviderKakao, p.cfg.TokenURL, form)
}

type userResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// UserInfo: sin consentimiento de email, Email queda vacío y el perfil se
// considera incompleto más arriba.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (*providers.UserProfile, error) {
	var ur userResponse
	if err := providers.GetJSON(ctx, p.cfg.HTTPClient, types.ProviderKakao, p.cfg.UserInfoURL, accessToken, &ur); err != nil {
		return nil, err
	}
	prof := &providers.UserProfile{
		Email:   ur.KakaoAccount.Email,
		Name:    ur.KakaoAccount.Profile.Nickname,
		Picture: ur.KakaoAccount.Profile.ProfileImageURL,
	}
	if ur.ID != 0 {
		prof.ProviderID = strconv.FormatInt(ur.ID, 10)
	}
	return prof, nil
}
