package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

// TaskUseCase casos de uso CRUD para tareas. El lead o inmueble relacionado también debe
// ser visible para el actor.
type TaskUseCase struct {
	repo       repository.TaskRepository
	leads      repository.LeadRepository
	properties repository.PropertyRepository
	resolver   *visibility.Resolver
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(
	repo repository.TaskRepository,
	leads repository.LeadRepository,
	properties repository.PropertyRepository,
	resolver *visibility.Resolver,
) *TaskUseCase {
	return &TaskUseCase{repo: repo, leads: leads, properties: properties, resolver: resolver}
}

// List tareas del alcance resuelto, por vencimiento.
func (uc *TaskUseCase) List(ctx context.Context, actor visibility.Actor, viewAs string) ([]dto.TaskResponse, error) {
	s, err := uc.resolver.Resolve(ctx, actor, viewAs)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByScope(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTaskResponse(t))
	}
	return out, nil
}

// Create crea una tarea. Prioridad medium y estado pending por defecto.
func (uc *TaskUseCase) Create(ctx context.Context, actor visibility.Actor, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if in.Priority == "" {
		in.Priority = "medium"
	}
	if in.Status == "" {
		in.Status = entity.TaskStatusPending
	}
	if in.DueDate == nil {
		return nil, domain.Invalid("dueDate es obligatorio")
	}
	if err := validateTask(in.Priority, in.Status); err != nil {
		return nil, err
	}
	owner, err := ownerForCreate(ctx, uc.resolver, actor, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	relLead, relProp := entity.StrPtr(in.RelatedLead), entity.StrPtr(in.RelatedProperty)
	if err := uc.checkRelated(ctx, actor, relLead, relProp); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &entity.Task{
		ID:              uuid.New().String(),
		Title:           in.Title,
		Description:     in.Description,
		DueDate:         in.DueDate.UTC(),
		Priority:        in.Priority,
		Status:          in.Status,
		AssignedTo:      owner,
		RelatedLead:     relLead,
		RelatedProperty: relProp,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Get obtiene una tarea visible para el actor.
func (uc *TaskUseCase) Get(ctx context.Context, actor visibility.Actor, id string) (*dto.TaskResponse, error) {
	t, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Update aplica los campos presentes. Un related vacío ("") quita la relación.
func (uc *TaskUseCase) Update(ctx context.Context, actor visibility.Actor, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	t, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate.UTC()
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if err := validateTask(t.Priority, t.Status); err != nil {
		return nil, err
	}
	var newLead, newProp *string
	if in.RelatedLead != nil {
		t.RelatedLead = entity.StrPtr(*in.RelatedLead)
		newLead = t.RelatedLead
	}
	if in.RelatedProperty != nil {
		t.RelatedProperty = entity.StrPtr(*in.RelatedProperty)
		newProp = t.RelatedProperty
	}
	if err := uc.checkRelated(ctx, actor, newLead, newProp); err != nil {
		return nil, err
	}
	t.AssignedTo, err = ownerForUpdate(ctx, uc.resolver, actor, t.AssignedTo, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Delete elimina una tarea visible para el actor.
func (uc *TaskUseCase) Delete(ctx context.Context, actor visibility.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// DeleteAll elimina las tareas propias del actor.
func (uc *TaskUseCase) DeleteAll(ctx context.Context, actor visibility.Actor) (int64, error) {
	if actor.ID == "" {
		return 0, domain.ErrUnauthorized
	}
	return uc.repo.DeleteByOwner(ctx, actor.ID)
}

func (uc *TaskUseCase) load(ctx context.Context, actor visibility.Actor, id string) (*entity.Task, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var owner *string
	if t != nil {
		owner = t.AssignedTo
	}
	if err := ensureVisible(ctx, uc.resolver, actor, t != nil, owner); err != nil {
		return nil, err
	}
	return t, nil
}

// checkRelated valida que el lead y el inmueble (si vienen) existan y sean visibles.
func (uc *TaskUseCase) checkRelated(ctx context.Context, actor visibility.Actor, leadID, propertyID *string) error {
	if leadID != nil {
		l, err := uc.leads.GetByID(ctx, *leadID)
		if err != nil {
			return err
		}
		var owner *string
		if l != nil {
			owner = l.AssignedTo
		}
		if err := ensureVisible(ctx, uc.resolver, actor, l != nil, owner); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("relatedLead %s no existe", *leadID)
			}
			return err
		}
	}
	if propertyID != nil {
		p, err := uc.properties.GetByID(ctx, *propertyID)
		if err != nil {
			return err
		}
		var owner *string
		if p != nil {
			owner = p.AssignedTo
		}
		if err := ensureVisible(ctx, uc.resolver, actor, p != nil, owner); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("relatedProperty %s no existe", *propertyID)
			}
			return err
		}
	}
	return nil
}

func validateTask(priority, status string) error {
	if !entity.ValidTaskPriority(priority) {
		return domain.Invalid("priority %q no válida", priority)
	}
	if !entity.ValidTaskStatus(status) {
		return domain.Invalid("status %q no válido", status)
	}
	return nil
}

func toTaskResponse(t *entity.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		DueDate:         t.DueDate,
		Priority:        t.Priority,
		Status:          t.Status,
		AssignedTo:      t.AssignedTo,
		RelatedLead:     t.RelatedLead,
		RelatedProperty: t.RelatedProperty,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
