package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

const taskColumns = `id, title, description, due_date, priority, status, assigned_to, related_lead, related_property, created_at, updated_at`

// TaskRepo implementación de TaskRepository sobre PostgreSQL.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador de tareas.
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// Create persiste una tarea.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.AssignedTo, t.RelatedLead, t.RelatedProperty,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("owner, lead o propiedad relacionada inexistente")
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea; (nil, nil) si no existe.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update actualiza la tarea.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks SET title = $2, description = $3, due_date = $4, priority = $5, status = $6,
		       assigned_to = $7, related_lead = $8, related_property = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.AssignedTo, t.RelatedLead, t.RelatedProperty,
		t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("owner, lead o propiedad relacionada inexistente")
		}
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una tarea.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByScope tareas del alcance por vencimiento ascendente.
func (r *TaskRepo) ListByScope(ctx context.Context, s scope.Scope) ([]*entity.Task, error) {
	all, ids := scopeArgs(s)
	rows, err := r.q.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE `+scopeFilter+` ORDER BY due_date, id`, all, ids)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// DeleteByOwner elimina las tareas asignadas al usuario.
func (r *TaskRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE assigned_to = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete tasks by owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status, &t.AssignedTo, &t.RelatedLead,
		&t.RelatedProperty, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
