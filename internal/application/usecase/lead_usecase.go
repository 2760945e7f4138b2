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

// LeadUseCase casos de uso CRUD para leads dentro del alcance del actor.
type LeadUseCase struct {
	repo     repository.LeadRepository
	resolver *visibility.Resolver
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(repo repository.LeadRepository, resolver *visibility.Resolver) *LeadUseCase {
	return &LeadUseCase{repo: repo, resolver: resolver}
}

// List leads del alcance resuelto (viewAs opcional), más recientes primero.
func (uc *LeadUseCase) List(ctx context.Context, actor visibility.Actor, viewAs string) ([]dto.LeadResponse, error) {
	s, err := uc.resolver.Resolve(ctx, actor, viewAs)
	if err != nil {
		return nil, err
	}
	leads, err := uc.repo.ListByScope(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, toLeadResponse(l))
	}
	return out, nil
}

// Create crea un lead. Source y Status toman sus valores por defecto si vienen vacíos.
func (uc *LeadUseCase) Create(ctx context.Context, actor visibility.Actor, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if in.Source == "" {
		in.Source = "Website"
	}
	if in.Status == "" {
		in.Status = entity.LeadStatusNew
	}
	if err := validateLead(in.Source, in.Status, in.Budget); err != nil {
		return nil, err
	}
	owner, err := ownerForCreate(ctx, uc.resolver, actor, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	budget := decimal.Zero
	if in.Budget != nil {
		budget = *in.Budget
	}
	now := time.Now().UTC()
	lead := &entity.Lead{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Company:    in.Company,
		Source:     in.Source,
		Status:     in.Status,
		Budget:     &budget,
		Notes:      in.Notes,
		AssignedTo: owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// Get obtiene un lead visible para el actor.
func (uc *LeadUseCase) Get(ctx context.Context, actor visibility.Actor, id string) (*dto.LeadResponse, error) {
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// Update aplica los campos presentes. Cambiar el owner exige que el nuevo esté en el alcance.
func (uc *LeadUseCase) Update(ctx context.Context, actor visibility.Actor, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		lead.Name = *in.Name
	}
	if in.Email != nil {
		lead.Email = *in.Email
	}
	if in.Phone != nil {
		lead.Phone = *in.Phone
	}
	if in.Company != nil {
		lead.Company = *in.Company
	}
	if in.Source != nil {
		lead.Source = *in.Source
	}
	if in.Status != nil {
		lead.Status = *in.Status
	}
	if in.Budget != nil {
		b := *in.Budget
		lead.Budget = &b
	}
	if in.Notes != nil {
		lead.Notes = *in.Notes
	}
	if err := validateLead(lead.Source, lead.Status, lead.Budget); err != nil {
		return nil, err
	}
	lead.AssignedTo, err = ownerForUpdate(ctx, uc.resolver, actor, lead.AssignedTo, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	lead.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// Delete elimina un lead visible para el actor.
func (uc *LeadUseCase) Delete(ctx context.Context, actor visibility.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// DeleteAll elimina los leads propios del actor (no los de su equipo).
func (uc *LeadUseCase) DeleteAll(ctx context.Context, actor visibility.Actor) (int64, error) {
	if actor.ID == "" {
		return 0, domain.ErrUnauthorized
	}
	return uc.repo.DeleteByOwner(ctx, actor.ID)
}

func (uc *LeadUseCase) load(ctx context.Context, actor visibility.Actor, id string) (*entity.Lead, error) {
	lead, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var owner *string
	if lead != nil {
		owner = lead.AssignedTo
	}
	if err := ensureVisible(ctx, uc.resolver, actor, lead != nil, owner); err != nil {
		return nil, err
	}
	return lead, nil
}

func validateLead(source, status string, budget *decimal.Decimal) error {
	if !entity.ValidLeadSource(source) {
		return domain.Invalid("source %q no válido", source)
	}
	if !entity.ValidLeadStatus(status) {
		return domain.Invalid("status %q no válido", status)
	}
	if budget != nil && budget.IsNegative() {
		return domain.Invalid("budget no puede ser negativo")
	}
	return nil
}

func toLeadResponse(l *entity.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Company:    l.Company,
		Source:     l.Source,
		Status:     l.Status,
		Budget:     l.Budget,
		Notes:      l.Notes,
		AssignedTo: l.AssignedTo,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
