package memory

import (
	"context"
	"sort"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

// PropertyRepo propiedades en memoria.
type PropertyRepo struct {
	s *Store
}

func cloneProperty(p *entity.Property) *entity.Property {
	c := *p
	c.AssignedTo = cloneStr(p.AssignedTo)
	if p.Area != nil {
		a := *p.Area
		c.Area = &a
	}
	return &c
}

func (r *PropertyRepo) Create(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownerExists(p.AssignedTo) {
		return domain.ErrUserNotFound
	}
	r.s.properties[p.ID] = cloneProperty(p)
	return nil
}

func (r *PropertyRepo) GetByID(_ context.Context, id string) (*entity.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, nil
	}
	return cloneProperty(p), nil
}

func (r *PropertyRepo) Update(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if !r.s.ownerExists(p.AssignedTo) {
		return domain.ErrUserNotFound
	}
	r.s.properties[p.ID] = cloneProperty(p)
	return nil
}

func (r *PropertyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteProperty(id)
	return nil
}

func (r *PropertyRepo) ListByScope(_ context.Context, s scope.Scope) ([]*entity.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Property
	for _, p := range r.s.properties {
		if s.Contains(p.AssignedTo) {
			out = append(out, cloneProperty(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PropertyRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.properties {
		if p.AssignedTo != nil && *p.AssignedTo == ownerID {
			r.s.deleteProperty(id)
			n++
		}
	}
	return n, nil
}

// deleteProperty borra y desliga tareas relacionadas. Requiere s.mu tomado.
func (s *Store) deleteProperty(id string) {
	delete(s.properties, id)
	for _, t := range s.tasks {
		if t.RelatedProperty != nil && *t.RelatedProperty == id {
			t.RelatedProperty = nil
		}
	}
}
