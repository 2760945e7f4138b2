package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/usecase"
)

// LeadHandler CRUD de leads y estadísticas por alcance.
type LeadHandler struct {
	uc        *usecase.LeadUseCase
	dashboard *analytics.DashboardUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *usecase.LeadUseCase, dashboard *analytics.DashboardUseCase) *LeadHandler {
	return &LeadHandler{uc: uc, dashboard: dashboard}
}

// Stats godoc
// @Summary      Estadísticas de leads del alcance
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        viewAs  query  string  false  "ID de usuario (admin: cualquiera; manager: su equipo)"
// @Success      200  {object}  dto.ScopedStatsDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/leads/stats [get]
func (h *LeadHandler) Stats(c *fiber.Ctx) error {
	out, err := h.dashboard.ScopedStats(c.UserContext(), actorFrom(c), c.Query("viewAs"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        viewAs  query  string  false  "ID de usuario"
// @Success      200  {array}   dto.LeadResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), actorFrom(c), c.Query("viewAs"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateLeadRequest  true  "lead"
// @Success      201  {object}  dto.LeadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del lead"
// @Success      200  {object}  dto.LeadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del lead"
// @Param        body  body  dto.UpdateLeadRequest  true  "campos a modificar"
// @Success      200  {object}  dto.LeadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [put]
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLeadRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del lead"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [delete]
func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "lead eliminado"})
}

// DeleteAll godoc
// @Summary      Eliminar todos los leads propios
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DeletedResponse
// @Router       /api/leads/delete-all [delete]
func (h *LeadHandler) DeleteAll(c *fiber.Ctx) error {
	n, err := h.uc.DeleteAll(c.UserContext(), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeletedResponse{Message: "leads eliminados", Deleted: n})
}
