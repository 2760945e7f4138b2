package memory

import (
	"context"
	"sort"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo leads en memoria.
type LeadRepo struct {
	s *Store
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	c.AssignedTo = cloneStr(l.AssignedTo)
	if l.Budget != nil {
		b := *l.Budget
		c.Budget = &b
	}
	return &c
}

func (r *LeadRepo) Create(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownerExists(l.AssignedTo) {
		return domain.ErrUserNotFound
	}
	r.s.leads[l.ID] = cloneLead(l)
	return nil
}

func (r *LeadRepo) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, nil
	}
	return cloneLead(l), nil
}

func (r *LeadRepo) Update(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[l.ID]; !ok {
		return domain.ErrNotFound
	}
	if !r.s.ownerExists(l.AssignedTo) {
		return domain.ErrUserNotFound
	}
	r.s.leads[l.ID] = cloneLead(l)
	return nil
}

func (r *LeadRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.leads, id)
	for _, t := range r.s.tasks {
		if t.RelatedLead != nil && *t.RelatedLead == id {
			t.RelatedLead = nil
		}
	}
	return nil
}

func (r *LeadRepo) ListByScope(_ context.Context, s scope.Scope) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Lead
	for _, l := range r.s.leads {
		if s.Contains(l.AssignedTo) {
			out = append(out, cloneLead(l))
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

func (r *LeadRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.leads {
		if l.AssignedTo != nil && *l.AssignedTo == ownerID {
			delete(r.s.leads, id)
			for _, t := range r.s.tasks {
				if t.RelatedLead != nil && *t.RelatedLead == id {
					t.RelatedLead = nil
				}
			}
			n++
		}
	}
	return n, nil
}
