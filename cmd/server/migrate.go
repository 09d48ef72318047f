package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/config"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema of the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			if cfg.Store.Driver != config.DriverSQLite && cfg.Store.Driver != config.DriverMySQL {
				logger.Info("nothing to migrate", map[string]any{"driver": cfg.Store.Driver})
				return nil
			}

			ctx := cmd.Context()
			db, migrate, err := openSQL(ctx, cfg.Store)
			if err != nil {
				return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
			}
			defer db.Close()

			if err := migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate %s store: %w", cfg.Store.Driver, err)
			}

			logger.Info("schema up to date", map[string]any{"driver": cfg.Store.Driver})
			return nil
		},
	}
}
