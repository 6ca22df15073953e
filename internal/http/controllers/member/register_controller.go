package member

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	dto "github.com/dropDatabas3/taskflow/internal/http/dto/member"
	httperrors "github.com/dropDatabas3/taskflow/internal/http/errors"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	svc "github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// RegisterController maneja el alta de cuentas locales.
type RegisterController struct {
	service svc.AuthService
}

// NewRegisterController crea el controller.
func NewRegisterController(service svc.AuthService) *RegisterController {
	return &RegisterController{service: service}
}

// Register maneja POST /member/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.service.Register(ctx, svc.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		writeRegisterError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message: "member registered",
		ID:      m.ID,
	})
}

func writeRegisterError(w http.ResponseWriter, err error) {
	var policy *svc.PolicyError
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email, password y name son obligatorios"))

	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("email inválido"))

	case errors.As(err, &policy):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak.WithDetail(strings.Join(policy.Reasons, ",")))

	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)

	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailTaken)

	case errors.Is(err, repository.ErrStoreUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
