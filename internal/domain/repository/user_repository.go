package repository

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
)

// UserRepository puerto del directorio de identidad (DIP).
// Los Find* devuelven (nil, nil) cuando el usuario no existe.
// UpdateManagedBy y ClearManagedBy sólo deben invocarse desde application/hierarchy.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByManager usuarios cuyo managedBy apunta al manager, ordenados por nombre.
	FindByManager(ctx context.Context, managerID string) ([]*entity.User, error)
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	CountByRole(ctx context.Context, role entity.Role) (int, error)
	UpdateManagedBy(ctx context.Context, userID string, managerID *string) error
	// AssignManager fija managedBy = managerID sólo si el agente no tiene manager, ya es de
	// managerID o force es true; si no, domain.ErrConflict. La condición se evalúa al escribir.
	AssignManager(ctx context.Context, agentID, managerID string, force bool) error
	// ClearManagedBy desvincula a todo el equipo del manager; devuelve cuántos usuarios cambió.
	ClearManagedBy(ctx context.Context, managerID string) (int64, error)
	UpdateRole(ctx context.Context, userID string, role entity.Role) error
	Delete(ctx context.Context, id string) error
}
