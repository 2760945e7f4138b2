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

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, name, email, phone, company, source, status, budget, notes, assigned_to, created_at, updated_at`

// LeadRepo implementación de LeadRepository sobre PostgreSQL.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador de leads.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Create persiste un lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.Company, l.Source, l.Status, l.Budget, l.Notes, l.AssignedTo,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead; (nil, nil) si no existe.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// Update actualiza todos los campos editables del lead.
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET name = $2, email = $3, phone = $4, company = $5, source = $6, status = $7,
		       budget = $8, notes = $9, assigned_to = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.Company, l.Source, l.Status, l.Budget, l.Notes, l.AssignedTo, l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lead.
func (r *LeadRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByScope leads del alcance, más recientes primero.
func (r *LeadRepo) ListByScope(ctx context.Context, s scope.Scope) ([]*entity.Lead, error) {
	all, ids := scopeArgs(s)
	rows, err := r.q.Query(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE `+scopeFilter+` ORDER BY created_at DESC, id`, all, ids)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// DeleteByOwner elimina los leads asignados al usuario.
func (r *LeadRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM leads WHERE assigned_to = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete leads by owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source, &l.Status, &l.Budget, &l.Notes, &l.AssignedTo,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
