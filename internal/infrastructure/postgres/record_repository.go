package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/rollup"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// RecordRepo vista transversal de leads, propiedades y tareas (usable con pool o tx).
type RecordRepo struct {
	q Querier
}

// NewRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecordRepository(q Querier) *RecordRepo {
	return &RecordRepo{q: q}
}

var recordQueries = map[entity.RecordKind]string{
	entity.KindLead:     `SELECT id, assigned_to, budget, status FROM leads WHERE ` + scopeFilter + ` ORDER BY created_at, id`,
	entity.KindProperty: `SELECT id, assigned_to, price, status FROM properties WHERE ` + scopeFilter + ` ORDER BY created_at, id`,
	entity.KindTask:     `SELECT id, assigned_to, NULL::numeric, status FROM tasks WHERE ` + scopeFilter + ` ORDER BY created_at, id`,
}

// FindByOwnerIn registros del tipo cuyo owner cae en el alcance.
func (r *RecordRepo) FindByOwnerIn(ctx context.Context, kind entity.RecordKind, s scope.Scope) ([]entity.Record, error) {
	query, ok := recordQueries[kind]
	if !ok {
		return nil, fmt.Errorf("find records: tipo desconocido %q", kind)
	}
	all, ids := scopeArgs(s)
	rows, err := r.q.Query(ctx, query, all, ids)
	if err != nil {
		return nil, fmt.Errorf("find records by owner: %w", err)
	}
	defer rows.Close()
	var out []entity.Record
	for rows.Next() {
		rec := entity.Record{Kind: kind}
		var value decimal.NullDecimal
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &value, &rec.State); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if value.Valid {
			v := value.Decimal
			rec.Value = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// AggregateByConversionState GROUP BY status sobre leads del alcance. Budget NULL suma cero.
func (r *RecordRepo) AggregateByConversionState(ctx context.Context, s scope.Scope) ([]rollup.Bucket, error) {
	query := `
		SELECT status, count(*), COALESCE(sum(budget), 0)
		FROM leads WHERE ` + scopeFilter + `
		GROUP BY status ORDER BY status`
	all, ids := scopeArgs(s)
	rows, err := r.q.Query(ctx, query, all, ids)
	if err != nil {
		return nil, fmt.Errorf("aggregate leads by status: %w", err)
	}
	defer rows.Close()
	var out []rollup.Bucket
	for rows.Next() {
		var b rollup.Bucket
		if err := rows.Scan(&b.State, &b.Count, &b.Value); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AggregateByOwner cantidad de leads y revenue convertido por owner. Excluye leads sin asignar.
func (r *RecordRepo) AggregateByOwner(ctx context.Context, s scope.Scope) ([]rollup.OwnerTotals, error) {
	query := `
		SELECT assigned_to, count(*),
		       COALESCE(sum(budget) FILTER (WHERE status = $3), 0)
		FROM leads
		WHERE assigned_to IS NOT NULL AND ` + scopeFilter + `
		GROUP BY assigned_to ORDER BY assigned_to`
	all, ids := scopeArgs(s)
	rows, err := r.q.Query(ctx, query, all, ids, entity.LeadStatusConverted)
	if err != nil {
		return nil, fmt.Errorf("aggregate leads by owner: %w", err)
	}
	defer rows.Close()
	var out []rollup.OwnerTotals
	for rows.Next() {
		var t rollup.OwnerTotals
		if err := rows.Scan(&t.OwnerID, &t.LeadCount, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan owner totals: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountActiveTasks tareas del alcance no completadas.
func (r *RecordRepo) CountActiveTasks(ctx context.Context, s scope.Scope) (int, error) {
	all, ids := scopeArgs(s)
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM tasks WHERE status <> $3 AND `+scopeFilter,
		all, ids, entity.TaskStatusCompleted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active tasks: %w", err)
	}
	return n, nil
}

// DistinctOwnerIDs owners referenciados por cualquier registro.
func (r *RecordRepo) DistinctOwnerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT assigned_to FROM leads WHERE assigned_to IS NOT NULL
		UNION SELECT assigned_to FROM properties WHERE assigned_to IS NOT NULL
		UNION SELECT assigned_to FROM tasks WHERE assigned_to IS NOT NULL
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("distinct owners: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UnassignOwner deja sin asignar leads, propiedades y tareas del usuario.
func (r *RecordRepo) UnassignOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	for _, table := range []string{"leads", "properties", "tasks"} {
		tag, err := r.q.Exec(ctx,
			`UPDATE `+table+` SET assigned_to = NULL, updated_at = now() WHERE assigned_to = $1`, ownerID)
		if err != nil {
			return total, fmt.Errorf("unassign %s: %w", table, err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}
