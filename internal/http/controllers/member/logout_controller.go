package member

import (
	"net/http"

	dto "github.com/dropDatabas3/taskflow/internal/http/dto/member"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	"github.com/dropDatabas3/taskflow/internal/http/services/session"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// LogoutController revoca la sesión renovable y borra la cookie.
type LogoutController struct {
	sessions session.SessionService
}

// NewLogoutController crea el controller.
func NewLogoutController(sessions session.SessionService) *LogoutController {
	return &LogoutController{sessions: sessions}
}

// Logout maneja POST /member/logout y POST /auth/logout.
// La cookie se borra siempre, incluso si falla el store.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	http.SetCookie(w, c.sessions.ClearCookie())

	revoked, err := c.sessions.Logout(ctx, helpers.BearerToken(r))
	if err != nil {
		log.Error("logout failed", logger.Err(err))
		helpers.WriteJSON(w, http.StatusInternalServerError, dto.LogoutResponse{
			Message: "logout failed",
			Success: false,
		})
		return
	}

	log.Debug("logout", logger.Bool("revoked", revoked))
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{
		Message: "logged out",
		Success: true,
	})
}
