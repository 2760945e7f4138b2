package hierarchy

import (
	"context"
	"errors"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/pkg/logger"
	"github.com/ankitkhetariya/crm-real-estate/pkg/metrics"
)

// Nombres de operación usados en logs, métricas y CascadeError.
const (
	OpChangeRole = "change_role"
	OpRemoveUser = "remove_user"
)

// CascadePlan pasos de una cascada de identidad. Cada paso debe ser idempotente para que
// una cascada fallida pueda re-ejecutarse. Un paso nil se da por completado sin escribir.
type CascadePlan struct {
	Operation string
	UserID    string

	// Validate corre antes de escribir; su error lleva la cascada a Rejected y se devuelve tal cual.
	Validate        func(ctx context.Context, users repository.UserRepository) error
	MutateHierarchy func(ctx context.Context, users repository.UserRepository) error
	UnassignRecords func(ctx context.Context, records repository.RecordRepository) error
	CommitIdentity  func(ctx context.Context, users repository.UserRepository) error
}

// CascadeCoordinator recorre Validated → HierarchyMutated → RecordsUnassigned →
// IdentityCommitted → Done dentro de una unidad de trabajo del TxRunner.
type CascadeCoordinator struct {
	tx  TxRunner
	log *logger.Logger
}

// NewCascadeCoordinator construye el coordinador.
func NewCascadeCoordinator(tx TxRunner, log *logger.Logger) *CascadeCoordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &CascadeCoordinator{tx: tx, log: log}
}

// Execute corre el plan. Devuelve el error de validación (Rejected), el error tal cual si la
// unidad de trabajo no llegó a validar (Pending), un *domain.CascadeError si algo falla después
// de Validated, o nil en Done.
func (c *CascadeCoordinator) Execute(ctx context.Context, plan CascadePlan) error {
	rejected := false
	completed := domain.StepPending

	err := c.tx.Run(ctx, func(users repository.UserRepository, records repository.RecordRepository) error {
		if plan.Validate != nil {
			if err := plan.Validate(ctx, users); err != nil {
				rejected = true
				return err
			}
		}
		completed = domain.StepValidated

		steps := []func() error{
			func() error {
				if plan.MutateHierarchy == nil {
					return nil
				}
				return plan.MutateHierarchy(ctx, users)
			},
			func() error {
				if plan.UnassignRecords == nil {
					return nil
				}
				return plan.UnassignRecords(ctx, records)
			},
			func() error {
				if plan.CommitIdentity == nil {
					return nil
				}
				return plan.CommitIdentity(ctx, users)
			},
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return c.fail(plan, completed, err)
			}
			completed = completed.Next()
		}
		return nil
	})

	switch {
	case err == nil:
		c.log.Info().
			Str("operation", plan.Operation).
			Str("user_id", plan.UserID).
			Str("step", string(domain.StepDone)).
			Msg("cascada completada")
		metrics.CascadeSucceeded(plan.Operation)
		return nil
	case rejected:
		c.log.Debug().
			Err(err).
			Str("operation", plan.Operation).
			Str("user_id", plan.UserID).
			Str("step", string(domain.StepRejected)).
			Msg("cascada rechazada")
		metrics.CascadeRejected(plan.Operation)
		return err
	case completed == domain.StepPending:
		// Sin validar no hubo escrituras: no es una cascada interrumpida.
		c.log.Warn().
			Err(err).
			Str("operation", plan.Operation).
			Str("user_id", plan.UserID).
			Str("step", string(domain.StepPending)).
			Msg("cascada no iniciada")
		return err
	}

	var ce *domain.CascadeError
	if !errors.As(err, &ce) {
		// Falló el commit después de IdentityCommitted.
		ce = c.fail(plan, completed, err)
	}
	c.log.Error().
		Err(ce.Err).
		Str("operation", ce.Operation).
		Str("user_id", ce.UserID).
		Str("step", string(ce.Step)).
		Str("completed", string(ce.Completed)).
		Msg("cascada interrumpida")
	metrics.CascadeFailed(ce.Operation, string(ce.Step))
	return ce
}

func (c *CascadeCoordinator) fail(plan CascadePlan, completed domain.CascadeStep, err error) *domain.CascadeError {
	return &domain.CascadeError{
		Operation: plan.Operation,
		UserID:    plan.UserID,
		Step:      completed.Next(),
		Completed: completed,
		Err:       err,
	}
}
