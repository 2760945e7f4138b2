package memory

import (
	"context"
	"sort"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo tareas en memoria.
type TaskRepo struct {
	s *Store
}

func cloneTask(t *entity.Task) *entity.Task {
	c := *t
	c.AssignedTo = cloneStr(t.AssignedTo)
	c.RelatedLead = cloneStr(t.RelatedLead)
	c.RelatedProperty = cloneStr(t.RelatedProperty)
	return &c
}

// checkRefs valida owner y relaciones como las FKs de tasks. Requiere s.mu tomado.
func (r *TaskRepo) checkRefs(t *entity.Task) error {
	if !r.s.ownerExists(t.AssignedTo) {
		return domain.Invalid("owner, lead o propiedad relacionada inexistente")
	}
	if t.RelatedLead != nil {
		if _, ok := r.s.leads[*t.RelatedLead]; !ok {
			return domain.Invalid("owner, lead o propiedad relacionada inexistente")
		}
	}
	if t.RelatedProperty != nil {
		if _, ok := r.s.properties[*t.RelatedProperty]; !ok {
			return domain.Invalid("owner, lead o propiedad relacionada inexistente")
		}
	}
	return nil
}

func (r *TaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(t); err != nil {
		return err
	}
	r.s.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *TaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	return cloneTask(t), nil
}

func (r *TaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkRefs(t); err != nil {
		return err
	}
	r.s.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *TaskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepo) ListByScope(_ context.Context, s scope.Scope) ([]*entity.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Task
	for _, t := range r.s.tasks {
		if s.Contains(t.AssignedTo) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TaskRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == ownerID {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}
