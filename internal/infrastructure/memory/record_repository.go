package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/rollup"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// RecordRepo vista transversal en memoria; los agregados reutilizan el paquete rollup.
type RecordRepo struct {
	s *Store
}

type stamped struct {
	rec       entity.Record
	createdAt time.Time
}

func (r *RecordRepo) FindByOwnerIn(_ context.Context, kind entity.RecordKind, s scope.Scope) ([]entity.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []stamped
	switch kind {
	case entity.KindLead:
		for _, l := range r.s.leads {
			rows = append(rows, stamped{cloneLead(l).Record(), l.CreatedAt})
		}
	case entity.KindProperty:
		for _, p := range r.s.properties {
			rows = append(rows, stamped{cloneProperty(p).Record(), p.CreatedAt})
		}
	case entity.KindTask:
		for _, t := range r.s.tasks {
			rows = append(rows, stamped{cloneTask(t).Record(), t.CreatedAt})
		}
	default:
		return nil, fmt.Errorf("find records: tipo desconocido %q", kind)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.Before(rows[j].createdAt)
		}
		return rows[i].rec.ID < rows[j].rec.ID
	})
	var out []entity.Record
	for _, row := range rows {
		if s.Contains(row.rec.OwnerID) {
			out = append(out, row.rec)
		}
	}
	return out, nil
}

func (r *RecordRepo) AggregateByConversionState(ctx context.Context, s scope.Scope) ([]rollup.Bucket, error) {
	leads, err := r.FindByOwnerIn(ctx, entity.KindLead, s)
	if err != nil {
		return nil, err
	}
	buckets := rollup.Buckets(s, leads)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].State < buckets[j].State })
	return buckets, nil
}

func (r *RecordRepo) AggregateByOwner(ctx context.Context, s scope.Scope) ([]rollup.OwnerTotals, error) {
	leads, err := r.FindByOwnerIn(ctx, entity.KindLead, s)
	if err != nil {
		return nil, err
	}
	totals := rollup.ByOwner(s, leads)
	sort.Slice(totals, func(i, j int) bool { return totals[i].OwnerID < totals[j].OwnerID })
	return totals, nil
}

func (r *RecordRepo) CountActiveTasks(_ context.Context, s scope.Scope) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, t := range r.s.tasks {
		if t.Active() && s.Contains(t.AssignedTo) {
			n++
		}
	}
	return n, nil
}

func (r *RecordRepo) DistinctOwnerIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	add := func(p *string) {
		if p != nil {
			seen[*p] = struct{}{}
		}
	}
	for _, l := range r.s.leads {
		add(l.AssignedTo)
	}
	for _, p := range r.s.properties {
		add(p.AssignedTo)
	}
	for _, t := range r.s.tasks {
		add(t.AssignedTo)
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *RecordRepo) UnassignOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for _, l := range r.s.leads {
		if l.AssignedTo != nil && *l.AssignedTo == ownerID {
			l.AssignedTo, l.UpdatedAt = nil, now
			n++
		}
	}
	for _, p := range r.s.properties {
		if p.AssignedTo != nil && *p.AssignedTo == ownerID {
			p.AssignedTo, p.UpdatedAt = nil, now
			n++
		}
	}
	for _, t := range r.s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == ownerID {
			t.AssignedTo, t.UpdatedAt = nil, now
			n++
		}
	}
	return n, nil
}
