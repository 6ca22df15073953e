package middlewares

import "context"

type ctxKey string

const (
	ctxIdentityKey  ctxKey = "identity"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithIdentity inyecta la identidad autenticada en el contexto.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

// GetIdentity obtiene la identidad del contexto.
// Retorna nil si el request no está autenticado.
func GetIdentity(ctx context.Context) *Identity {
	if v := ctx.Value(ctxIdentityKey); v != nil {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
