// Package audit registra eventos de seguridad (logins, logouts, revocaciones,
// cambios de estado de cuentas) en un logger dedicado "audit".
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// Eventos conocidos.
const (
	EventLoginSucceeded    = "login.succeeded"
	EventLoginFailed       = "login.failed"
	EventRefreshRotated    = "refresh.rotated"
	EventRefreshReused     = "refresh.reused"
	EventLogout            = "logout"
	EventMemberDeactivated = "member.deactivated"
	EventMemberReactivated = "member.reactivated"
	EventAdminBootstrapped = "admin.bootstrapped"
)

// Log escribe un evento de auditoría con el request_id y demás campos del
// logger del contexto.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, zap.String("event", event))...)
}
