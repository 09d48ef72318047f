package main

import (
	"github.com/spf13/cobra"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/config"
)

func seedCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load partners and fee policies from a seed file into the SQL store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if file != "" {
				cfg.Seed.File = file
			}
			logger := newLogger(cfg)

			seed, err := config.LoadSeed(cfg.Seed.File)
			if err != nil {
				return err
			}

			s, err := openStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if s.Seeder == nil {
				logger.Info("driver reads the seed file at start; nothing stored", map[string]any{
					"driver": cfg.Store.Driver,
				})
				return nil
			}

			if err := s.Seeder.Upsert(cmd.Context(), seed.Partners, seed.Policies); err != nil {
				return err
			}

			logger.Info("seed loaded", map[string]any{
				"file":         cfg.Seed.File,
				"partners":     len(seed.Partners),
				"fee_policies": len(seed.Policies),
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (defaults to seed.file)")
	return cmd
}
