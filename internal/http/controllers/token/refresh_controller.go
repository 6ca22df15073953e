// Package token contiene el controller de rotación del refresh token.
package token

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	dto "github.com/dropDatabas3/taskflow/internal/http/dto/token"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/http/services/session"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// RefreshController emite un access token nuevo a partir de la cookie de refresh.
type RefreshController struct {
	sessions   session.SessionService
	cookieName string
}

// NewRefreshController crea el controller.
func NewRefreshController(sessions session.SessionService, cookieName string) *RefreshController {
	if cookieName == "" {
		cookieName = "refreshToken"
	}
	return &RefreshController{sessions: sessions, cookieName: cookieName}
}

// Refresh maneja POST /auth/refresh
func (c *RefreshController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RefreshController.Refresh"))

	res, err := c.sessions.Refresh(ctx, helpers.CookieValue(r, c.cookieName))
	if err != nil {
		log.Debug("refresh failed", logger.Err(err))
		c.writeRefreshError(w, err)
		return
	}

	http.SetCookie(w, c.sessions.RefreshCookie(res.RefreshToken, res.RefreshExpiresAt))
	helpers.WriteJSON(w, http.StatusOK, dto.RefreshResponse{AccessToken: res.AccessToken})
}

func (c *RefreshController) writeRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidRefreshToken),
		errors.Is(err, session.ErrRefreshTokenRevoked),
		errors.Is(err, session.ErrRefreshTokenSuperseded),
		errors.Is(err, auth.ErrAccountDisabled):
		http.SetCookie(w, c.sessions.ClearCookie())
		httperrors.WriteError(w, httperrors.ErrInvalidRefreshToken)

	case errors.Is(err, repository.ErrStoreUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
