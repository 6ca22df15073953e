package logger

import (
	"go.uber.org/zap"

	"github.com/dropDatabas3/taskflow/internal/util"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path crea un campo para el path del request.
func Path(v string) zap.Field { return zap.String("path", v) }

// Route crea un campo para el patrón de ruta de chi (ej: /oauth/{provider}/callback).
func Route(v string) zap.Field { return zap.String("route", v) }

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field { return zap.Int("status", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// MemberID crea un campo para el ID de la cuenta.
func MemberID(v string) zap.Field { return zap.String("member_id", v) }

// Email crea un campo para el email, enmascarado.
func Email(v string) zap.Field { return zap.String("email", util.MaskEmail(v)) }

// Provider crea un campo para el provider de identidad (GOOGLE, NAVER, ...).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Role crea un campo para el rol.
func Role(v string) zap.Field { return zap.String("role", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (controller, service, repository).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// =================================================================================
// CAMPOS GENÉRICOS
// =================================================================================

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }

// String crea un campo string genérico.
func String(key, v string) zap.Field { return zap.String(key, v) }

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field { return zap.Int(key, v) }

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
