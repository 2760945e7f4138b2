package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, email, phone, password_hash, role, managed_by, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, string(user.Role), user.ManagedBy,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// FindByManager equipo del manager ordenado por nombre.
func (r *UserRepo) FindByManager(ctx context.Context, managerID string) ([]*entity.User, error) {
	return r.list(ctx, "find users by manager",
		`SELECT `+userColumns+` FROM users WHERE managed_by = $1 ORDER BY name, id`, managerID)
}

// ListByRole usuarios de un rol ordenados por nombre.
func (r *UserRepo) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	return r.list(ctx, "list users by role",
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name, id`, string(role))
}

// List todos los usuarios, más recientes primero.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, "list users", `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
}

// CountByRole cantidad de usuarios con el rol.
func (r *UserRepo) CountByRole(ctx context.Context, role entity.Role) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = $1`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// UpdateManagedBy fija (o limpia con nil) el manager de un usuario.
func (r *UserRepo) UpdateManagedBy(ctx context.Context, userID string, managerID *string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET managed_by = $2, updated_at = now() WHERE id = $1`, userID, managerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update managed_by: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AssignManager UPDATE condicional: bajo READ COMMITTED Postgres re-evalúa el WHERE sobre la
// versión confirmada de la fila, así que una asignación concurrente a otro manager da 0 filas.
func (r *UserRepo) AssignManager(ctx context.Context, agentID, managerID string, force bool) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET managed_by = $2, updated_at = now()
		WHERE id = $1 AND ($3 OR managed_by IS NULL OR managed_by = $2)`,
		agentID, managerID, force)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("assign manager: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, agentID).Scan(&exists); err != nil {
		return fmt.Errorf("assign manager: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%w: el agente %s ya pertenece a otro manager", domain.ErrConflict, agentID)
}

// ClearManagedBy desvincula a todo el equipo del manager.
func (r *UserRepo) ClearManagedBy(ctx context.Context, managerID string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET managed_by = NULL, updated_at = now() WHERE managed_by = $1`, managerID)
	if err != nil {
		return 0, fmt.Errorf("clear managed_by: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateRole cambia el rol del usuario.
func (r *UserRepo) UpdateRole(ctx context.Context, userID string, role entity.Role) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, userID, string(role))
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina un usuario por ID. Eliminar uno inexistente no es error (cascada re-ejecutable).
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.ManagedBy,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}
