package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/domain/types"
)

const maxResponseBytes = 1 << 20

// tokenResponse cubre los campos comunes del endpoint token de Google, Naver y Kakao.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// Naver devuelve expires_in como string.
	ExpiresIn        json.Number `json:"expires_in"`
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
}

// ExchangeCode hace POST form-urlencoded al endpoint token.
// Un 200 con "error" en el body cuenta como rechazo.
func ExchangeCode(ctx context.Context, c *http.Client, p types.Provider, endpoint string, form url.Values) (*TokenSet, error) {
	var tr tokenResponse
	if err := do(ctx, c, p, "token", http.MethodPost, endpoint, form, "", &tr); err != nil {
		return nil, err
	}
	if tr.Error != "" {
		return nil, &UpstreamError{Provider: p, Op: "token", Status: http.StatusOK, Code: tr.Error, Description: tr.ErrorDescription}
	}
	if tr.AccessToken == "" {
		return nil, &UpstreamError{Provider: p, Op: "token", Status: http.StatusOK, Err: errors.New("missing access_token")}
	}

	ts := &TokenSet{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
	}
	if n, err := tr.ExpiresIn.Int64(); err == nil {
		ts.ExpiresIn = int(n)
	}
	return ts, nil
}

// GetJSON hace GET con bearer y decodifica el body en out.
func GetJSON(ctx context.Context, c *http.Client, p types.Provider, endpoint, accessToken string, out any) error {
	return do(ctx, c, p, "userinfo", http.MethodGet, endpoint, nil, accessToken, out)
}

func do(ctx context.Context, c *http.Client, p types.Provider, op, method, endpoint string, form url.Values, bearer string, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &UpstreamError{Provider: p, Op: op, Err: err}
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return &UpstreamError{Provider: p, Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UpstreamError{Provider: p, Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode/100 != 2 {
		var b struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(raw, &b)
		return &UpstreamError{
			Provider:    p,
			Op:          op,
			Status:      resp.StatusCode,
			Code:        b.Error,
			Description: b.ErrorDescription,
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamError{Provider: p, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
