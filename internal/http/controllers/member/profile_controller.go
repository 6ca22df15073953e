package member

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	dto "github.com/dropDatabas3/taskflow/internal/http/dto/member"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	mw "github.com/dropDatabas3/taskflow/internal/http/middlewares"
	svc "github.com/dropDatabas3/taskflow/internal/http/services/member"
)

// ProfileController devuelve la cuenta del usuario autenticado.
type ProfileController struct {
	service svc.MemberService
}

// NewProfileController crea el controller.
func NewProfileController(service svc.MemberService) *ProfileController {
	return &ProfileController{service: service}
}

// Profile maneja GET /member/profile
func (c *ProfileController) Profile(w http.ResponseWriter, r *http.Request) {
	id := mw.GetIdentity(r.Context())
	if id == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	m, err := c.service.Profile(r.Context(), id.Email)
	switch {
	case err == nil:
		helpers.WriteJSON(w, http.StatusOK, dto.FromMember(m))
	case errors.Is(err, svc.ErrMemberNotFound):
		httperrors.WriteError(w, httperrors.ErrMemberNotFound)
	case errors.Is(err, repository.ErrStoreUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
