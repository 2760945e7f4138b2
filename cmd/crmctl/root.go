package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/postgres"
	"github.com/ankitkhetariya/crm-real-estate/pkg/config"
	"github.com/ankitkhetariya/crm-real-estate/pkg/logger"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Herramientas de operación del CRM: migraciones y reconciliación de la jerarquía",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newReconcileCmd())
	return cmd
}

// connectDB abre el pool con la misma configuración que la API. Sólo PostgreSQL:
// el store en memoria vive dentro del proceso de la API.
func connectDB(ctx context.Context) (*pgxpool.Pool, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return nil, nil, fmt.Errorf("crmctl requiere STORE_DRIVER=postgres (actual %q)", cfg.Store.Driver)
	}
	log := newCLILogger(cfg.App, os.Stderr)
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return pool, log, nil
}

// newCLILogger los logs van a w (stderr) para que stdout quede sólo con el JSON del comando.
func newCLILogger(app config.AppConfig, w io.Writer) *logger.Logger {
	return logger.New(logger.Config{Env: app.Env, Level: app.LogLevel, Service: "crmctl", Output: w})
}
