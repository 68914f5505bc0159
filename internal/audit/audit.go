// Package audit emite eventos de auditoría del flujo de autorización como
// logs estructurados con logger "audit". Nunca incluye passwords ni tickets.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// Eventos emitidos.
const (
	EventDecision      = "authorization.decision"
	EventReauthCleared = "authorization.reauth_cleared"
	EventLoginFailed   = "directory.login_failed"
	EventLoginOK       = "directory.login_ok"
)

// Log escribe un evento de auditoría con el logger del request.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	fs := make([]zap.Field, 0, len(fields)+1)
	fs = append(fs, zap.String("event", event))
	fs = append(fs, fields...)
	logger.From(ctx).Named("audit").Info(event, fs...)
}
