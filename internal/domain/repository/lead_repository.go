package repository

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

// LeadRepository puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, id string) error
	// ListByScope leads del alcance, más recientes primero.
	ListByScope(ctx context.Context, s scope.Scope) ([]*entity.Lead, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
