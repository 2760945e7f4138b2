package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

// PropertyUseCase casos de uso CRUD para inmuebles dentro del alcance del actor.
type PropertyUseCase struct {
	repo     repository.PropertyRepository
	resolver *visibility.Resolver
}

// NewPropertyUseCase construye el caso de uso.
func NewPropertyUseCase(repo repository.PropertyRepository, resolver *visibility.Resolver) *PropertyUseCase {
	return &PropertyUseCase{repo: repo, resolver: resolver}
}

// List inmuebles del alcance resuelto.
func (uc *PropertyUseCase) List(ctx context.Context, actor visibility.Actor, viewAs string) ([]dto.PropertyResponse, error) {
	s, err := uc.resolver.Resolve(ctx, actor, viewAs)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByScope(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PropertyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPropertyResponse(p))
	}
	return out, nil
}

// Create crea un inmueble. Status Available por defecto.
func (uc *PropertyUseCase) Create(ctx context.Context, actor visibility.Actor, in dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if in.Status == "" {
		in.Status = "Available"
	}
	if in.Price == nil {
		return nil, domain.Invalid("price es obligatorio")
	}
	if err := validateProperty(in.Type, in.Status, *in.Price, in.Area); err != nil {
		return nil, err
	}
	owner, err := ownerForCreate(ctx, uc.resolver, actor, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Property{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Address:     in.Address,
		City:        in.City,
		Price:       *in.Price,
		Area:        in.Area,
		Status:      in.Status,
		AssignedTo:  owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := toPropertyResponse(p)
	return &resp, nil
}

// Get obtiene un inmueble visible para el actor.
func (uc *PropertyUseCase) Get(ctx context.Context, actor visibility.Actor, id string) (*dto.PropertyResponse, error) {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := toPropertyResponse(p)
	return &resp, nil
}

// Update aplica los campos presentes.
func (uc *PropertyUseCase) Update(ctx context.Context, actor visibility.Actor, id string, in dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Area != nil {
		a := *in.Area
		p.Area = &a
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if err := validateProperty(p.Type, p.Status, p.Price, p.Area); err != nil {
		return nil, err
	}
	p.AssignedTo, err = ownerForUpdate(ctx, uc.resolver, actor, p.AssignedTo, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := toPropertyResponse(p)
	return &resp, nil
}

// Delete elimina un inmueble visible; las tareas ligadas quedan sin relación.
func (uc *PropertyUseCase) Delete(ctx context.Context, actor visibility.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// DeleteAll elimina los inmuebles propios del actor.
func (uc *PropertyUseCase) DeleteAll(ctx context.Context, actor visibility.Actor) (int64, error) {
	if actor.ID == "" {
		return 0, domain.ErrUnauthorized
	}
	return uc.repo.DeleteByOwner(ctx, actor.ID)
}

func (uc *PropertyUseCase) load(ctx context.Context, actor visibility.Actor, id string) (*entity.Property, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var owner *string
	if p != nil {
		owner = p.AssignedTo
	}
	if err := ensureVisible(ctx, uc.resolver, actor, p != nil, owner); err != nil {
		return nil, err
	}
	return p, nil
}

func validateProperty(typ, status string, price decimal.Decimal, area *decimal.Decimal) error {
	if !entity.ValidPropertyType(typ) {
		return domain.Invalid("type %q no válido", typ)
	}
	if !entity.ValidPropertyStatus(status) {
		return domain.Invalid("status %q no válido", status)
	}
	if price.IsNegative() {
		return domain.Invalid("price no puede ser negativo")
	}
	if area != nil && area.IsNegative() {
		return domain.Invalid("area no puede ser negativa")
	}
	return nil
}

func toPropertyResponse(p *entity.Property) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		Address:     p.Address,
		City:        p.City,
		Price:       p.Price,
		Area:        p.Area,
		Status:      p.Status,
		AssignedTo:  p.AssignedTo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
