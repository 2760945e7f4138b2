// Package visibility resuelve el alcance de registros que un actor puede ver o agregar.
// La misma regla aplica a leads, propiedades, tareas y dashboards: el mismo par
// (actor, viewAs) produce siempre el mismo alcance sin importar quién lo consulte.
package visibility

import (
	"context"
	"fmt"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
	"github.com/ankitkhetariya/crm-real-estate/pkg/metrics"
)

// Actor usuario que origina la petición.
type Actor struct {
	ID   string
	Role entity.Role
}

// Resolver calcula alcances leyendo siempre el estado actual del directorio (sin caché).
type Resolver struct {
	users repository.UserRepository
}

// NewResolver construye el resolver sobre el directorio de identidad.
func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// Resolve aplica, en orden:
//  1. admin: sin viewAs → sin restricción; con viewAs → {viewAs} más su equipo si viewAs es manager.
//  2. manager: sin viewAs → {manager} ∪ equipo; con viewAs debe pertenecer a ese conjunto → {viewAs}.
//  3. agent: siempre {agent}; viewAs se ignora.
//
// Un viewAs fuera del alcance devuelve domain.ErrForbidden sin detalle adicional.
func (r *Resolver) Resolve(ctx context.Context, actor Actor, viewAs string) (scope.Scope, error) {
	s, err := r.resolve(ctx, actor, viewAs)
	metrics.ScopeResolved(actor.Role.String(), err == nil)
	return s, err
}

func (r *Resolver) resolve(ctx context.Context, actor Actor, viewAs string) (scope.Scope, error) {
	if actor.ID == "" {
		return scope.Scope{}, domain.ErrUnauthorized
	}
	switch actor.Role {
	case entity.RoleAdmin:
		if viewAs == "" {
			return scope.Unrestricted(), nil
		}
		target, err := r.users.FindByID(ctx, viewAs)
		if err != nil {
			return scope.Scope{}, fmt.Errorf("visibility: buscar view-as: %w", err)
		}
		if target == nil || target.Role != entity.RoleManager {
			return scope.Of(viewAs), nil
		}
		team, err := r.TeamIDs(ctx, viewAs)
		if err != nil {
			return scope.Scope{}, err
		}
		return scope.Of(append([]string{viewAs}, team...)...), nil

	case entity.RoleManager:
		team, err := r.TeamIDs(ctx, actor.ID)
		if err != nil {
			return scope.Scope{}, err
		}
		own := scope.Of(append([]string{actor.ID}, team...)...)
		if viewAs == "" {
			return own, nil
		}
		if !own.Has(viewAs) {
			return scope.Scope{}, domain.ErrForbidden
		}
		return scope.Of(viewAs), nil

	case entity.RoleAgent:
		return scope.Of(actor.ID), nil
	}
	return scope.Scope{}, domain.ErrForbidden
}

// TeamIDs ids de los agentes cuyo managedBy apunta al manager.
func (r *Resolver) TeamIDs(ctx context.Context, managerID string) ([]string, error) {
	agents, err := r.Team(ctx, managerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// Team agentes del manager (filtra por rol por si el directorio trae datos inconsistentes).
func (r *Resolver) Team(ctx context.Context, managerID string) ([]*entity.User, error) {
	members, err := r.users.FindByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("visibility: equipo de %s: %w", managerID, err)
	}
	agents := make([]*entity.User, 0, len(members))
	for _, m := range members {
		if m.Role == entity.RoleAgent {
			agents = append(agents, m)
		}
	}
	return agents, nil
}

// TeamScope alcance de un manager como si fuera el actor ({manager} ∪ equipo).
// Es exactamente la regla 2 sin viewAs; la usan los rollups de equipo.
func (r *Resolver) TeamScope(ctx context.Context, managerID string) (scope.Scope, error) {
	return r.Resolve(ctx, Actor{ID: managerID, Role: entity.RoleManager}, "")
}

// AuthorizeOwner verifica que el actor pueda asignar (o acceder a) registros del owner.
// Con alcance sin restricción el owner debe existir en el directorio.
func (r *Resolver) AuthorizeOwner(ctx context.Context, actor Actor, ownerID string) error {
	s, err := r.Resolve(ctx, actor, "")
	if err != nil {
		return err
	}
	if s.IsUnrestricted() {
		u, err := r.users.FindByID(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("visibility: buscar owner: %w", err)
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		return nil
	}
	if !s.Has(ownerID) {
		return domain.ErrForbidden
	}
	return nil
}

// CanSee indica si el registro (por su owner) es visible para el actor sin view-as.
func (r *Resolver) CanSee(ctx context.Context, actor Actor, ownerID *string) (bool, error) {
	s, err := r.Resolve(ctx, actor, "")
	if err != nil {
		return false, err
	}
	return s.Contains(ownerID), nil
}
