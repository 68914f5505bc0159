package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field es un alias para no importar zap en cada capa.
type Field = zap.Field

// HTTP

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// Authorization flow

// Subject is the end-user subject. Safe to log, unlike tickets and credentials.
func Subject(v string) zap.Field { return zap.String("subject", v) }

func ClientID(v string) zap.Field { return zap.String("client_id", v) }

// Action is the collaborator action (INTERACTION, NO_INTERACTION, LOCATION, ...).
func Action(v string) zap.Field { return zap.String("action", v) }

func Reason(v string) zap.Field { return zap.String("reason", v) }

func Upstream(v string) zap.Field { return zap.String("upstream", v) }

// Sistema

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

// Genéricos

func Key(v string) zap.Field { return zap.String("key", v) }

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }

func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }
