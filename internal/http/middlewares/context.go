package middlewares

import "context"

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxClientIPKey  ctxKey = "client_ip"
)

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}

func setClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxClientIPKey, ip)
}

// GetClientIP obtiene la IP resuelta por WithClientIP ("" si no corrió).
func GetClientIP(ctx context.Context) string {
	s, _ := ctx.Value(ctxClientIPKey).(string)
	return s
}
