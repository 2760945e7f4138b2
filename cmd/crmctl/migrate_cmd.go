package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Aplica, revierte o lista las migraciones del esquema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := args[0]
			switch direction {
			case "up", "down", "status":
			default:
				return fmt.Errorf("dirección inválida %q: se espera up, down o status", direction)
			}

			pool, log, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool, direction); err != nil {
				return err
			}
			log.Info().Str("direction", direction).Msg("migraciones ejecutadas")
			return nil
		},
	}
}
