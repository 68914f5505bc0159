package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authzserver/internal/config"
	"github.com/dropDatabas3/authzserver/internal/http/server"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config:\n%w", err)
			}

			ctx, stop := signalContext()
			defer stop()
			return server.Run(ctx, cfg)
		},
	}
}
