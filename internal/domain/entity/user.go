package entity

import "time"

// Role rol cerrado del sistema. Agregar un rol obliga a revisar los switch exhaustivos del resolver.
type Role string

// Roles válidos para User.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// ParseRole convierte un string en Role; ok=false si no es uno de los tres roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleAgent:
		return Role(s), true
	}
	return "", false
}

// Assignable indica si el rol puede asignarse vía cambio de rol (admin no).
func (r Role) Assignable() bool {
	return r == RoleManager || r == RoleAgent
}

func (r Role) String() string { return string(r) }

// User representa un usuario del directorio de identidad.
// ManagedBy sólo puede ser no nulo en agentes y apunta a un manager.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string // bcrypt hash
	Role         Role
	ManagedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManagedBy indica si el usuario pertenece al equipo del manager indicado.
func (u *User) IsManagedBy(managerID string) bool {
	return u.ManagedBy != nil && *u.ManagedBy == managerID
}

// Clone copia profunda (ManagedBy incluido).
func (u *User) Clone() *User {
	c := *u
	if u.ManagedBy != nil {
		m := *u.ManagedBy
		c.ManagedBy = &m
	}
	return &c
}
