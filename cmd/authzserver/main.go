package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authzserver/internal/config"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

var version = "dev"

func main() {
	// .env es opcional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "authzserver",
		Short:         "Endpoint de autorización interactivo sobre un servicio de decisión externo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("CONFIG_PATH", "config.yaml"), "Archivo de configuración YAML (env CONFIG_PATH)")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if cfg.App.Version == "" {
			cfg.App.Version = version
		}
		logger.Init(logger.Config{
			Env:         cfg.App.Env,
			Level:       cfg.Log.Level,
			ServiceName: "authzserver",
			Version:     cfg.App.Version,
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newHashPasswordCmd(),
	)
	return root
}

// signalContext se cancela con SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
