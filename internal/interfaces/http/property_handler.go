package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/usecase"
)

// PropertyHandler CRUD de inmuebles.
type PropertyHandler struct {
	uc *usecase.PropertyUseCase
}

// NewPropertyHandler construye el handler.
func NewPropertyHandler(uc *usecase.PropertyUseCase) *PropertyHandler {
	return &PropertyHandler{uc: uc}
}

// List godoc
// @Summary      Listar inmuebles
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        viewAs  query  string  false  "ID de usuario"
// @Success      200  {array}   dto.PropertyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/properties [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), actorFrom(c), c.Query("viewAs"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear inmueble
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreatePropertyRequest  true  "inmueble"
// @Success      201  {object}  dto.PropertyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePropertyRequest
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
// @Summary      Obtener inmueble
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del inmueble"
// @Success      200  {object}  dto.PropertyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/properties/{id} [get]
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar inmueble
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del inmueble"
// @Param        body  body  dto.UpdatePropertyRequest  true  "campos a modificar"
// @Success      200  {object}  dto.PropertyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/properties/{id} [put]
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePropertyRequest
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
// @Summary      Eliminar inmueble
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del inmueble"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "inmueble eliminado"})
}

// DeleteAll godoc
// @Summary      Eliminar todos los inmuebles propios
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DeletedResponse
// @Router       /api/properties/delete-all [delete]
func (h *PropertyHandler) DeleteAll(c *fiber.Ctx) error {
	n, err := h.uc.DeleteAll(c.UserContext(), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeletedResponse{Message: "inmuebles eliminados", Deleted: n})
}
