package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authzserver/internal/config"
	"github.com/dropDatabas3/authzserver/internal/directory"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
	"github.com/dropDatabas3/authzserver/internal/security/password"
	migrations "github.com/dropDatabas3/authzserver/migrations/postgres"
)

func newMigrateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema del directorio en Postgres (y opcionalmente carga usuarios)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.L().With(logger.Component("migrate"))

			if cfg.Directory.DSN == "" {
				return errors.New("directory.dsn (DIRECTORY_DSN) is required")
			}

			ctx, stop := signalContext()
			defer stop()

			pg, err := directory.OpenPostgres(ctx, directory.PGConfig{DSN: cfg.Directory.DSN, MaxConns: 2})
			if err != nil {
				return err
			}
			defer pg.Close()

			res, err := directory.NewMigrator(migrations.DirectoryFS, migrations.DirectoryDir).Run(ctx, pg.Pool())
			if err != nil {
				return err
			}
			log.Info("migrations applied",
				logger.Any("applied", res.Applied),
				logger.Any("skipped", res.Skipped),
				logger.Duration(res.Duration))

			if seedFile == "" {
				return nil
			}
			seeds, err := directory.LoadSeedFile(seedFile)
			if err != nil {
				return err
			}
			for _, s := range seeds {
				hash := s.PasswordHash
				if hash == "" {
					if hash, err = password.Hash(password.Default, s.Password); err != nil {
						return fmt.Errorf("hash %s: %w", s.LoginID, err)
					}
				}
				if err := pg.Upsert(ctx, s.User, hash); err != nil {
					return err
				}
			}
			log.Info("directory seeded", logger.Int("users", len(seeds)))
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "YAML con usuarios a insertar/actualizar")
	return cmd
}
