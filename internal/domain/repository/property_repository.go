package repository

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

// PropertyRepository puerto de persistencia para Property.
type PropertyRepository interface {
	Create(ctx context.Context, p *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	Update(ctx context.Context, p *entity.Property) error
	Delete(ctx context.Context, id string) error
	// ListByScope propiedades del alcance, más recientes primero.
	ListByScope(ctx context.Context, s scope.Scope) ([]*entity.Property, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
