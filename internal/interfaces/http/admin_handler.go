package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
)

// AdminHandler dashboard maestro y operaciones de jerarquía (sólo admin).
type AdminHandler struct {
	hierarchy  *hierarchy.Manager
	reconciler *hierarchy.Reconciler
	dashboard  *analytics.DashboardUseCase
	report     *analytics.ReportUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(
	h *hierarchy.Manager,
	reconciler *hierarchy.Reconciler,
	dashboard *analytics.DashboardUseCase,
	report *analytics.ReportUseCase,
) *AdminHandler {
	return &AdminHandler{hierarchy: h, reconciler: reconciler, dashboard: dashboard, report: report}
}

// MasterDashboard godoc
// @Summary      Dashboard maestro
// @Description  Totales financieros (filtrados por viewAs si se indica), desempeño por manager, top agentes y listados.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        viewAs  query  string  false  "ID de usuario cuyo alcance filtra los totales"
// @Success      200  {object}  dto.MasterDashboardDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/master-dashboard [get]
func (h *AdminHandler) MasterDashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.MasterDashboard(c.UserContext(), actorFrom(c), c.Query("viewAs"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MasterReport godoc
// @Summary      Dashboard maestro en PDF
// @Tags         admin
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        viewAs  query  string  false  "ID de usuario cuyo alcance filtra los totales"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/master-dashboard/report.pdf [get]
func (h *AdminHandler) MasterReport(c *fiber.Ctx) error {
	pdf, filename, err := h.report.MasterReportPDF(c.UserContext(), actorFrom(c), c.Query("viewAs"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// AssignTeam godoc
// @Summary      Asignar equipo a un manager
// @Description  Reemplaza el equipo completo. Agentes de otro manager devuelven 409 salvo force=true.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AssignTeamRequest  true  "managerId, agentIds, force"
// @Success      200  {object}  dto.AssignTeamResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/assign-team [put]
func (h *AdminHandler) AssignTeam(c *fiber.Ctx) error {
	var in dto.AssignTeamRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	res, err := h.hierarchy.AssignTeam(c.UserContext(), hierarchy.AssignTeamInput{
		ActingUserID: GetUserID(c),
		ManagerID:    in.ManagerID,
		AgentIDs:     in.AgentIDs,
		Force:        in.Force,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AssignTeamResponse{
		Message:    "equipo actualizado",
		ManagerID:  res.ManagerID,
		AgentIDs:   nonNil(res.AgentIDs),
		Released:   nonNil(res.Released),
		Reassigned: nonNil(res.Reassigned),
	})
}

// ChangeRole godoc
// @Summary      Cambiar rol de un usuario
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.ChangeRoleRequest  true  "role: agent | manager"
// @Success      200  {object}  dto.ChangeRoleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	var in dto.ChangeRoleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	id := c.Params("id")
	role, err := h.hierarchy.ChangeRole(c.UserContext(), id, in.Role, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ChangeRoleResponse{Message: "rol actualizado", UserID: id, Role: role.String()})
}

// RemoveUser godoc
// @Summary      Eliminar usuario
// @Description  Vacía su equipo si es manager y deja sin asignar sus leads, propiedades y tareas.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) RemoveUser(c *fiber.Ctx) error {
	if err := h.hierarchy.RemoveUser(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "usuario eliminado"})
}

// Reconcile godoc
// @Summary      Reparar referencias huérfanas
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        dryRun  query  bool  false  "sólo reportar"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/admin/reconcile [post]
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	rep, err := h.reconciler.Reconcile(c.UserContext(), c.QueryBool("dryRun", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReconcileResponse(rep))
}

// toReconcileResponse mapea el reporte a su salida JSON.
func toReconcileResponse(rep *hierarchy.ReconcileReport) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		DryRun:            rep.DryRun,
		DetachedUsers:     nonNil(rep.DetachedUsers),
		OrphanOwners:      nonNil(rep.OrphanOwners),
		UnassignedRecords: rep.UnassignedRecords,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
