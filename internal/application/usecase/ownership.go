// Package usecase contiene el CRUD de leads, propiedades y tareas filtrado por el alcance
// de visibilidad del actor. Un registro fuera del alcance se reporta como inexistente.
package usecase

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
)

// ownerForCreate owner de un registro nuevo: el creador si no se indica otro.
func ownerForCreate(ctx context.Context, r *visibility.Resolver, actor visibility.Actor, requested string) (*string, error) {
	if requested == "" || requested == actor.ID {
		id := actor.ID
		return &id, nil
	}
	if err := r.AuthorizeOwner(ctx, actor, requested); err != nil {
		return nil, err
	}
	return &requested, nil
}

// ownerForUpdate reasignación: nil no cambia, "" deja sin asignar (sólo admin).
func ownerForUpdate(ctx context.Context, r *visibility.Resolver, actor visibility.Actor, current, requested *string) (*string, error) {
	if requested == nil {
		return current, nil
	}
	if *requested == "" {
		if actor.Role != entity.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		return nil, nil
	}
	if current != nil && *current == *requested {
		return current, nil
	}
	if err := r.AuthorizeOwner(ctx, actor, *requested); err != nil {
		return nil, err
	}
	owner := *requested
	return &owner, nil
}

// ensureVisible ErrNotFound si el registro no existe o su owner está fuera del alcance del actor.
func ensureVisible(ctx context.Context, r *visibility.Resolver, actor visibility.Actor, found bool, owner *string) error {
	if !found {
		return domain.ErrNotFound
	}
	ok, err := r.CanSee(ctx, actor, owner)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
