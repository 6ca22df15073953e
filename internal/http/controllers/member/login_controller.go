package member

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	dto "github.com/dropDatabas3/taskflow/internal/http/dto/member"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/http/services/session"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// LoginController maneja el login con email + password.
type LoginController struct {
	sessions session.SessionService
}

// NewLoginController crea el controller.
func NewLoginController(sessions session.SessionService) *LoginController {
	return &LoginController{sessions: sessions}
}

// Login maneja POST /member/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	http.SetCookie(w, c.sessions.RefreshCookie(res.RefreshToken, res.RefreshExpiresAt))
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: res.AccessToken,
		Member:      dto.FromMember(res.Member),
	})
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	case errors.Is(err, auth.ErrAccountDisabled):
		httperrors.WriteError(w, httperrors.ErrAccountDisabled)

	case errors.Is(err, repository.ErrStoreUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
