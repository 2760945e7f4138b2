package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo directorio de identidad en memoria. Devuelve copias; nunca punteros internos.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; ok {
		return fmt.Errorf("%w: id %s duplicado", domain.ErrConflict, user.ID)
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if !r.s.ownerExists(user.ManagedBy) {
		return domain.ErrUserNotFound
	}
	r.s.users[user.ID] = user.Clone()
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByManager(_ context.Context, managerID string) ([]*entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.IsManagedBy(managerID) }, byName), nil
}

func (r *UserRepo) ListByRole(_ context.Context, role entity.Role) ([]*entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.Role == role }, byName), nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	return r.filter(func(*entity.User) bool { return true }, newestFirst), nil
}

func (r *UserRepo) CountByRole(_ context.Context, role entity.Role) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) UpdateManagedBy(_ context.Context, userID string, managerID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || !r.s.ownerExists(managerID) {
		return domain.ErrUserNotFound
	}
	u.ManagedBy = cloneStr(managerID)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepo) AssignManager(_ context.Context, agentID, managerID string, force bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[agentID]
	if !ok || !r.s.ownerExists(&managerID) {
		return domain.ErrUserNotFound
	}
	if !force && u.ManagedBy != nil && *u.ManagedBy != managerID {
		return fmt.Errorf("%w: el agente %s ya pertenece a otro manager", domain.ErrConflict, agentID)
	}
	u.ManagedBy = cloneStr(&managerID)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepo) ClearManagedBy(_ context.Context, managerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for _, u := range r.s.users {
		if u.IsManagedBy(managerID) {
			u.ManagedBy = nil
			u.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) UpdateRole(_ context.Context, userID string, role entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete elimina el usuario. Igual que la FK de PostgreSQL, falla si aún es owner de registros;
// los usuarios que lo tenían como manager quedan con managedBy nulo.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return nil
	}
	if r.s.ownsRecords(id) {
		return fmt.Errorf("%w: el usuario %s todavía tiene registros asignados", domain.ErrConflict, id)
	}
	for _, u := range r.s.users {
		if u.IsManagedBy(id) {
			u.ManagedBy = nil
		}
	}
	delete(r.s.users, id)
	return nil
}

func byName(a, b *entity.User) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func newestFirst(a, b *entity.User) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *UserRepo) filter(keep func(*entity.User) bool, less func(a, b *entity.User) bool) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
