package repository

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

// TaskRepository puerto de persistencia para Task.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
	// ListByScope tareas del alcance ordenadas por vencimiento ascendente.
	ListByScope(ctx context.Context, s scope.Scope) ([]*entity.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
