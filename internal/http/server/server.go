package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dropDatabas3/authzserver/internal/config"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// Run arma la app y sirve hasta que ctx se cancele; después hace shutdown
// con server.shutdown_timeout.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.L().With(logger.Component("server"))

	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler,
		ReadTimeout:       config.Dur(cfg.Server.ReadTimeout, 15*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.Dur(cfg.Server.WriteTimeout, 30*time.Second),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), config.Dur(cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
