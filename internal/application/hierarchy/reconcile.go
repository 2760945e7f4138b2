package hierarchy

import (
	"context"
	"fmt"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/pkg/logger"
)

// ReconcileReport lo que la reconciliación encontró (y corrigió si no es DryRun).
type ReconcileReport struct {
	DryRun bool
	// DetachedUsers usuarios con managedBy inválido: apunta a un no-manager, a un usuario
	// inexistente o el propio usuario no es agente.
	DetachedUsers []string
	// OrphanOwners owners referenciados por registros que ya no existen en el directorio.
	OrphanOwners []string
	// UnassignedRecords registros que quedaron sin asignar.
	UnassignedRecords int64
}

// Clean indica si no hubo nada que corregir.
func (r *ReconcileReport) Clean() bool {
	return len(r.DetachedUsers) == 0 && len(r.OrphanOwners) == 0
}

// Reconciler re-aplica los pasos idempotentes de las cascadas sobre el estado actual.
// Sirve para completar cascadas que fallaron a mitad de camino en un store sin transacciones.
type Reconciler struct {
	tx  TxRunner
	log *logger.Logger
}

// NewReconciler construye el reconciliador.
func NewReconciler(tx TxRunner, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("reconcile")
	return &Reconciler{tx: tx, log: log}
}

// Reconcile recorre el directorio y los registros. Con dryRun sólo reporta.
func (r *Reconciler) Reconcile(ctx context.Context, dryRun bool) (*ReconcileReport, error) {
	report := &ReconcileReport{DryRun: dryRun}
	err := r.tx.Run(ctx, func(users repository.UserRepository, records repository.RecordRepository) error {
		all, err := users.List(ctx)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.User, len(all))
		for _, u := range all {
			byID[u.ID] = u
		}

		for _, u := range all {
			if u.ManagedBy == nil {
				continue
			}
			mgr, ok := byID[*u.ManagedBy]
			if ok && mgr.Role == entity.RoleManager && u.Role == entity.RoleAgent {
				continue
			}
			report.DetachedUsers = append(report.DetachedUsers, u.ID)
			if dryRun {
				continue
			}
			if err := users.UpdateManagedBy(ctx, u.ID, nil); err != nil {
				return fmt.Errorf("reconcile: desvincular %s: %w", u.ID, err)
			}
		}

		owners, err := records.DistinctOwnerIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range owners {
			if _, ok := byID[id]; ok {
				continue
			}
			report.OrphanOwners = append(report.OrphanOwners, id)
			if dryRun {
				continue
			}
			n, err := records.UnassignOwner(ctx, id)
			if err != nil {
				return fmt.Errorf("reconcile: liberar registros de %s: %w", id, err)
			}
			report.UnassignedRecords += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Bool("dry_run", dryRun).
		Int("detached_users", len(report.DetachedUsers)).
		Int("orphan_owners", len(report.OrphanOwners)).
		Int64("unassigned_records", report.UnassignedRecords).
		Msg("reconciliación terminada")
	return report, nil
}
