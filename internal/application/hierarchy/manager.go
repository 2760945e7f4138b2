// Package hierarchy mantiene el grafo manager→agente y las cascadas de identidad.
// Es el único paquete que escribe managedBy o cambia roles.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/pkg/logger"
)

// Manager casos de uso de la jerarquía: asignar equipos, cambiar roles y dar de baja usuarios.
type Manager struct {
	tx      TxRunner
	cascade *CascadeCoordinator
	log     *logger.Logger
}

// NewManager construye el caso de uso.
func NewManager(tx TxRunner, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("hierarchy")
	return &Manager{tx: tx, cascade: NewCascadeCoordinator(tx, log), log: log}
}

// AssignTeamInput reemplazo completo del equipo de un manager.
// Force permite quitar agentes a otro manager (última escritura gana).
type AssignTeamInput struct {
	ActingUserID string
	ManagerID    string
	AgentIDs     []string
	Force        bool
}

// AssignTeamResult resultado de AssignTeam.
type AssignTeamResult struct {
	ManagerID string
	AgentIDs  []string
	// Released agentes que dejaron el equipo por no estar en la nueva lista.
	Released []string
	// Reassigned agentes quitados a otro manager (sólo con Force).
	Reassigned []string
}

// AssignTeam deja el equipo del manager exactamente igual a AgentIDs.
// Valida en servidor que el manager y cada agente existan y tengan el rol correcto y rechaza
// con domain.ErrConflict agentes que ya tienen otro manager salvo que Force sea true.
// Limpieza y asignación corren en la misma unidad de trabajo.
func (m *Manager) AssignTeam(ctx context.Context, in AssignTeamInput) (*AssignTeamResult, error) {
	if in.ManagerID == "" {
		return nil, domain.Invalid("managerId es obligatorio")
	}
	agentIDs, err := dedupe(in.AgentIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range agentIDs {
		if id == in.ManagerID {
			return nil, domain.Invalid("un manager no puede pertenecer a su propio equipo")
		}
	}

	res := &AssignTeamResult{ManagerID: in.ManagerID, AgentIDs: agentIDs}
	err = m.tx.Run(ctx, func(users repository.UserRepository, _ repository.RecordRepository) error {
		if err := requireAdmin(ctx, users, in.ActingUserID); err != nil {
			return err
		}
		mgr, err := users.FindByID(ctx, in.ManagerID)
		if err != nil {
			return err
		}
		if mgr == nil {
			return fmt.Errorf("%w: manager %s", domain.ErrUserNotFound, in.ManagerID)
		}
		if mgr.Role != entity.RoleManager {
			return domain.Invalid("el usuario %s no es manager", in.ManagerID)
		}

		for _, id := range agentIDs {
			agent, err := users.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if agent == nil {
				return fmt.Errorf("%w: agente %s", domain.ErrUserNotFound, id)
			}
			if agent.Role != entity.RoleAgent {
				return domain.Invalid("el usuario %s no es agente", id)
			}
			if agent.ManagedBy != nil && *agent.ManagedBy != in.ManagerID {
				if !in.Force {
					return fmt.Errorf("%w: el agente %s ya pertenece a otro manager", domain.ErrConflict, id)
				}
				res.Reassigned = append(res.Reassigned, id)
			}
		}

		previous, err := users.FindByManager(ctx, in.ManagerID)
		if err != nil {
			return err
		}
		keep := make(map[string]struct{}, len(agentIDs))
		for _, id := range agentIDs {
			keep[id] = struct{}{}
		}
		for _, u := range previous {
			if _, ok := keep[u.ID]; !ok {
				res.Released = append(res.Released, u.ID)
			}
		}

		if _, err := users.ClearManagedBy(ctx, in.ManagerID); err != nil {
			return fmt.Errorf("hierarchy: limpiar equipo: %w", err)
		}
		// La lectura de arriba no bloquea filas: la escritura condicional detecta a otro
		// AssignTeam concurrente que se haya llevado al agente entre medio.
		for _, id := range agentIDs {
			if err := users.AssignManager(ctx, id, in.ManagerID, in.Force); err != nil {
				return fmt.Errorf("hierarchy: asignar %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Str("manager_id", in.ManagerID).
		Int("agents", len(agentIDs)).
		Strs("released", res.Released).
		Strs("reassigned", res.Reassigned).
		Msg("equipo asignado")
	return res, nil
}

// AttachAgent agrega un agente recién creado al equipo de un manager (alta con managedBy).
// No desplaza a un agente que ya tenga otro manager.
func (m *Manager) AttachAgent(ctx context.Context, agentID, managerID string) error {
	if agentID == "" || managerID == "" {
		return domain.Invalid("agente y manager son obligatorios")
	}
	return m.tx.Run(ctx, func(users repository.UserRepository, _ repository.RecordRepository) error {
		mgr, err := users.FindByID(ctx, managerID)
		if err != nil {
			return err
		}
		if mgr == nil {
			return fmt.Errorf("%w: manager %s", domain.ErrUserNotFound, managerID)
		}
		if mgr.Role != entity.RoleManager {
			return domain.Invalid("el usuario %s no es manager", managerID)
		}
		agent, err := users.FindByID(ctx, agentID)
		if err != nil {
			return err
		}
		if agent == nil {
			return fmt.Errorf("%w: agente %s", domain.ErrUserNotFound, agentID)
		}
		if agent.Role != entity.RoleAgent {
			return domain.Invalid("sólo los agentes pueden tener manager")
		}
		return users.AssignManager(ctx, agentID, managerID, false)
	})
}

// ChangeRole cambia el rol de userID a newRole (agent o manager) como una sola operación.
// manager→agent vacía primero el equipo; pasar a manager limpia el managedBy propio.
func (m *Manager) ChangeRole(ctx context.Context, userID, newRole, actingUserID string) (entity.Role, error) {
	var (
		role   entity.Role
		target *entity.User
	)
	err := m.cascade.Execute(ctx, CascadePlan{
		Operation: OpChangeRole,
		UserID:    userID,
		Validate: func(ctx context.Context, users repository.UserRepository) error {
			if err := requireAdmin(ctx, users, actingUserID); err != nil {
				return err
			}
			if userID == actingUserID {
				return domain.ErrSelfModification
			}
			r, ok := entity.ParseRole(newRole)
			if !ok || !r.Assignable() {
				return domain.Invalid("rol %q no válido: se espera agent o manager", newRole)
			}
			role = r
			u, err := users.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if u == nil {
				return domain.ErrUserNotFound
			}
			target = u
			return nil
		},
		MutateHierarchy: func(ctx context.Context, users repository.UserRepository) error {
			if target.Role == entity.RoleManager && role != entity.RoleManager {
				if _, err := users.ClearManagedBy(ctx, userID); err != nil {
					return err
				}
			}
			if role != entity.RoleAgent && target.ManagedBy != nil {
				return users.UpdateManagedBy(ctx, userID, nil)
			}
			return nil
		},
		CommitIdentity: func(ctx context.Context, users repository.UserRepository) error {
			return users.UpdateRole(ctx, userID, role)
		},
	})
	if err != nil {
		return "", err
	}
	return role, nil
}

// RemoveUser da de baja a userID: vacía su equipo si es manager, deja sin asignar sus leads,
// propiedades y tareas (no se borran) y elimina el usuario.
func (m *Manager) RemoveUser(ctx context.Context, userID, actingUserID string) error {
	var target *entity.User
	return m.cascade.Execute(ctx, CascadePlan{
		Operation: OpRemoveUser,
		UserID:    userID,
		Validate: func(ctx context.Context, users repository.UserRepository) error {
			if err := requireAdmin(ctx, users, actingUserID); err != nil {
				return err
			}
			if userID == actingUserID {
				return domain.ErrSelfModification
			}
			u, err := users.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if u == nil {
				return domain.ErrUserNotFound
			}
			target = u
			return nil
		},
		MutateHierarchy: func(ctx context.Context, users repository.UserRepository) error {
			if target.Role != entity.RoleManager {
				return nil
			}
			_, err := users.ClearManagedBy(ctx, userID)
			return err
		},
		UnassignRecords: func(ctx context.Context, records repository.RecordRepository) error {
			_, err := records.UnassignOwner(ctx, userID)
			return err
		},
		CommitIdentity: func(ctx context.Context, users repository.UserRepository) error {
			return users.Delete(ctx, userID)
		},
	})
}

// requireAdmin lee el rol del actor desde el directorio (no del token).
func requireAdmin(ctx context.Context, users repository.UserRepository, actingUserID string) error {
	if actingUserID == "" {
		return domain.ErrUnauthorized
	}
	actor, err := users.FindByID(ctx, actingUserID)
	if err != nil {
		return err
	}
	if actor == nil || actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func dedupe(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, domain.Invalid("agentIds contiene un id vacío")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
