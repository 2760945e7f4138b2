package repository

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/rollup"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

// RecordRepository vista transversal sobre leads, propiedades y tareas para visibilidad,
// rollups y cascadas. Las implementaciones de lectura no modifican datos.
type RecordRepository interface {
	// FindByOwnerIn registros del tipo indicado cuyo owner cae en el alcance.
	FindByOwnerIn(ctx context.Context, kind entity.RecordKind, s scope.Scope) ([]entity.Record, error)

	// AggregateByConversionState agrupa los leads del alcance por estado (conteo y suma de budget).
	AggregateByConversionState(ctx context.Context, s scope.Scope) ([]rollup.Bucket, error)

	// AggregateByOwner cantidad de leads y revenue convertido por owner dentro del alcance.
	AggregateByOwner(ctx context.Context, s scope.Scope) ([]rollup.OwnerTotals, error)

	// CountActiveTasks tareas del alcance cuyo estado no es completed.
	CountActiveTasks(ctx context.Context, s scope.Scope) (int, error)

	// DistinctOwnerIDs owners referenciados por cualquier registro (para reconciliación).
	DistinctOwnerIDs(ctx context.Context) ([]string, error)

	// UnassignOwner pone owner = NULL en leads, propiedades y tareas del usuario. Idempotente.
	UnassignOwner(ctx context.Context, ownerID string) (int64, error)
}
