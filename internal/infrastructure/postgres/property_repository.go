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

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

const propertyColumns = `id, title, description, type, address, city, price, area, status, assigned_to, created_at, updated_at`

// PropertyRepo implementación de PropertyRepository sobre PostgreSQL.
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador de propiedades.
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

// Create persiste una propiedad.
func (r *PropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Type, p.Address, p.City, p.Price, p.Area, p.Status, p.AssignedTo,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// GetByID obtiene una propiedad; (nil, nil) si no existe.
func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	p, err := scanProperty(r.q.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// Update actualiza la propiedad.
func (r *PropertyRepo) Update(ctx context.Context, p *entity.Property) error {
	query := `
		UPDATE properties SET title = $2, description = $3, type = $4, address = $5, city = $6,
		       price = $7, area = $8, status = $9, assigned_to = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Type, p.Address, p.City, p.Price, p.Area, p.Status, p.AssignedTo, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una propiedad. Las tareas relacionadas quedan con related_property NULL.
func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByScope propiedades del alcance, más recientes primero.
func (r *PropertyRepo) ListByScope(ctx context.Context, s scope.Scope) ([]*entity.Property, error) {
	all, ids := scopeArgs(s)
	rows, err := r.q.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE `+scopeFilter+` ORDER BY created_at DESC, id`, all, ids)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// DeleteByOwner elimina las propiedades asignadas al usuario.
func (r *PropertyRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM properties WHERE assigned_to = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete properties by owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Type, &p.Address, &p.City, &p.Price, &p.Area, &p.Status, &p.AssignedTo,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
