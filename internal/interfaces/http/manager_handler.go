package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
)

// ManagerHandler analítica del equipo del manager.
type ManagerHandler struct {
	dashboard *analytics.DashboardUseCase
}

// NewManagerHandler construye el handler.
func NewManagerHandler(dashboard *analytics.DashboardUseCase) *ManagerHandler {
	return &ManagerHandler{dashboard: dashboard}
}

// MyAgents godoc
// @Summary      Agentes del equipo con su desempeño
// @Description  Un manager consulta su propio equipo; un admin debe indicar managerId.
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Param        managerId  query  string  false  "sólo admin"
// @Success      200  {object}  dto.TeamAnalyticsDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/manager/my-agents [get]
func (h *ManagerHandler) MyAgents(c *fiber.Ctx) error {
	out, err := h.dashboard.TeamAnalytics(c.UserContext(), actorFrom(c), c.Query("managerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
