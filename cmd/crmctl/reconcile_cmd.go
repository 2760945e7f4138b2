package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/postgres"
)

type reconcileOutput struct {
	Command           string   `json:"command"`
	DurationMS        int64    `json:"duration_ms"`
	DryRun            bool     `json:"dry_run"`
	Clean             bool     `json:"clean"`
	DetachedUsers     []string `json:"detached_users"`
	OrphanOwners      []string `json:"orphan_owners"`
	UnassignedRecords int64    `json:"unassigned_records"`
}

func newReconcileCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Desvincula managedBy inválidos y libera registros de owners inexistentes",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, log, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			start := time.Now()
			report, err := hierarchy.NewReconciler(postgres.NewTxRunner(pool), log).Reconcile(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			return writeJSON(reconcileOutput{
				Command:           "reconcile",
				DurationMS:        time.Since(start).Milliseconds(),
				DryRun:            report.DryRun,
				Clean:             report.Clean(),
				DetachedUsers:     nonNil(report.DetachedUsers),
				OrphanOwners:      nonNil(report.OrphanOwners),
				UnassignedRecords: report.UnassignedRecords,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Sólo reporta, no escribe")
	return cmd
}
