// Package admin contiene los controllers del área ADMIN.
package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	dto "github.com/dropDatabas3/taskflow/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	svc "github.com/dropDatabas3/taskflow/internal/http/services/member"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// StatusController activa o desactiva cuentas.
type StatusController struct {
	service svc.MemberService
}

// NewStatusController crea el controller.
func NewStatusController(service svc.MemberService) *StatusController {
	return &StatusController{service: service}
}

// SetStatus maneja PATCH /admin/members/{id}/status
func (c *StatusController) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("StatusController.SetStatus"),
		logger.MemberID(id),
	)

	var req dto.StatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if id == "" || req.Active == nil {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("active es obligatorio"))
		return
	}

	m, err := c.service.SetActive(ctx, id, *req.Active)
	if err != nil {
		log.Info("status change failed", logger.Err(err))
		switch {
		case errors.Is(err, svc.ErrMemberNotFound):
			httperrors.WriteError(w, httperrors.ErrMemberNotFound)
		case errors.Is(err, repository.ErrStoreUnavailable):
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{ID: m.ID, Active: m.Active})
}
