// Package oauth contiene el controller del callback de login federado.
package oauth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	memberdto "github.com/dropDatabas3/taskflow/internal/http/dto/member"
	dto "github.com/dropDatabas3/taskflow/internal/http/dto/oauth"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/http/services/session"
	"github.com/dropDatabas3/taskflow/internal/http/services/social"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// CallbackController completa el login federado a partir del authorization code.
type CallbackController struct {
	sessions session.SessionService
}

// NewCallbackController crea el controller.
func NewCallbackController(sessions session.SessionService) *CallbackController {
	return &CallbackController{sessions: sessions}
}

// Callback maneja POST /oauth/{provider}/callback
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("CallbackController.Callback"),
		logger.Provider(slug),
	)

	provider, ok := types.ParseProvider(slug)
	if !ok || !provider.IsFederated() {
		httperrors.WriteError(w, httperrors.ErrProviderNotEnabled)
		return
	}

	var req dto.CallbackRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.sessions.FederatedLogin(ctx, provider, req.Code, req.State)
	if err != nil {
		log.Info("federated login failed", logger.Err(err))
		writeCallbackError(w, err)
		return
	}

	http.SetCookie(w, c.sessions.RefreshCookie(res.RefreshToken, res.RefreshExpiresAt))
	helpers.WriteJSON(w, http.StatusOK, memberdto.LoginResponse{
		AccessToken: res.AccessToken,
		Member:      memberdto.FromMember(res.Member),
	})
}

func writeCallbackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, social.ErrMissingAuthorizationParameter):
		httperrors.WriteError(w, httperrors.ErrMissingAuthorizationParameter)

	case errors.Is(err, social.ErrStateReplayed):
		httperrors.WriteError(w, httperrors.ErrStateReplayed)

	case errors.Is(err, social.ErrProviderNotEnabled):
		httperrors.WriteError(w, httperrors.ErrProviderNotEnabled)

	case errors.Is(err, social.ErrProviderExchangeFailed):
		if errors.Is(err, providers.ErrUpstreamRejected) {
			httperrors.WriteError(w, httperrors.ErrProviderRejected)
			return
		}
		httperrors.WriteError(w, httperrors.ErrProviderUnavailable.WithCause(err))

	case errors.Is(err, social.ErrProviderProfileUnavailable):
		httperrors.WriteError(w, httperrors.ErrProviderProfileUnavailable.WithCause(err))

	case errors.Is(err, social.ErrAccountLinkConflict):
		httperrors.WriteError(w, httperrors.ErrAccountLinkConflict)

	case errors.Is(err, auth.ErrAccountDisabled):
		httperrors.WriteError(w, httperrors.ErrAccountDisabled)

	case errors.Is(err, repository.ErrStoreUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
