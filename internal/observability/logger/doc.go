// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,   // "dev" o "prod"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// En controllers/services (con contexto):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Dispatcher.Dispatch"))
//	log.Info("interaction prepared", logger.Action("INTERACTION"))
//
// Nunca loguear tickets, passwords ni el valor de la cookie de sesión.
package logger
