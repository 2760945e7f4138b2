package dto

// AssignTeamRequest PUT /api/admin/assign-team. Reemplaza el equipo completo del manager.
type AssignTeamRequest struct {
	ManagerID string   `json:"managerId" validate:"required"`
	AgentIDs  []string `json:"agentIds" validate:"omitempty,dive,required"`
	Force     bool     `json:"force"`
}

// AssignTeamResponse resultado de la asignación.
type AssignTeamResponse struct {
	Message    string   `json:"message"`
	ManagerID  string   `json:"managerId"`
	AgentIDs   []string `json:"agentIds"`
	Released   []string `json:"released"`
	Reassigned []string `json:"reassigned"`
}

// ChangeRoleRequest PUT /api/admin/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ChangeRoleResponse rol resultante.
type ChangeRoleResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Role    string `json:"role"`
}

// ReconcileResponse salida de la reconciliación (CLI).
type ReconcileResponse struct {
	DryRun            bool     `json:"dryRun"`
	DetachedUsers     []string `json:"detachedUsers"`
	OrphanOwners      []string `json:"orphanOwners"`
	UnassignedRecords int64    `json:"unassignedRecords"`
}
