package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rack-inventario-api/internal/application/dto"
	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
)

// RackItemHandler ubicaciones de ítems en slots (protegido).
type RackItemHandler struct {
	engine *inventory.Engine
}

// NewRackItemHandler construye el handler.
func NewRackItemHandler(engine *inventory.Engine) *RackItemHandler {
	return &RackItemHandler{engine: engine}
}

// Create godoc
// @Summary      Ubicar ítem en un slot
// @Description  Valida el espacio libre del slot y suma la cantidad a su ocupación.
// @Tags         rack-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateRackItemRequest  true  "item_id, slot_id, quantity > 0"
// @Success      201   {object}  dto.RackItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rack-items [post]
func (h *RackItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRackItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.engine.CreatePlacement(c.UserContext(), inventory.CreatePlacementInput{
		ItemID:       in.ItemID,
		SlotID:       in.SlotID,
		Quantity:     in.Quantity,
		MaterialCode: in.MaterialCode,
		Actor:        GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRackItemResponse(p))
}

// GetByID godoc
// @Summary      Obtener ubicación
// @Tags         rack-items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Rack item ID"
// @Success      200  {object}  dto.RackItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rack-items/{id} [get]
func (h *RackItemHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.engine.GetPlacement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToRackItemResponse(p))
}

// Update godoc
// @Summary      Editar ubicación
// @Description  Sobrescribe item_id, slot_id, quantity y material_code.
// @Tags         rack-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Rack item ID"
// @Param        body  body      dto.UpdateRackItemRequest  true  "nuevos valores"
// @Success      200   {object}  dto.RackItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rack-items/{id} [put]
func (h *RackItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRackItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	p, err := h.engine.UpdatePlacement(c.UserContext(), inventory.UpdatePlacementInput{
		ID:             c.Params("id"),
		ItemID:         in.ItemID,
		SlotID:         in.SlotID,
		Quantity:       in.Quantity,
		MaterialCode:   in.MaterialCode,
		LabelGenerated: in.LabelGenerated,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToRackItemResponse(p))
}

// Delete godoc
// @Summary      Eliminar ubicación
// @Description  Descuenta la cantidad completa de la ocupación del slot.
// @Tags         rack-items
// @Security     Bearer
// @Param        id   path  string  true  "Rack item ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rack-items/{id} [delete]
func (h *RackItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.DeletePlacement(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListBySlot godoc
// @Summary      Ubicaciones de un slot
// @Tags         rack-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Slot ID"
// @Success      200  {array}  dto.RackItemResponse
// @Router       /api/slots/{id}/rack-items [get]
func (h *RackItemHandler) ListBySlot(c *fiber.Ctx) error {
	list, err := h.engine.ListPlacementsBySlot(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToRackItemResponses(list))
}

// ListByItem godoc
// @Summary      Ubicaciones de un ítem
// @Tags         rack-items
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "Item ID"
// @Success      200  {array}  dto.RackItemResponse
// @Router       /api/items/{itemId}/rack-items [get]
func (h *RackItemHandler) ListByItem(c *fiber.Ctx) error {
	list, err := h.engine.ListPlacementsByItem(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToRackItemResponses(list))
}
