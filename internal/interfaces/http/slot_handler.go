package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rack-inventario-api/internal/application/dto"
	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
)

// SlotHandler administración de slots y diagnóstico de consistencia (protegido).
type SlotHandler struct {
	engine *inventory.Engine
}

// NewSlotHandler construye el handler.
func NewSlotHandler(engine *inventory.Engine) *SlotHandler {
	return &SlotHandler{engine: engine}
}

// Create godoc
// @Summary      Crear slot
// @Tags         slots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSlotRequest  true  "rack_id, label (única en el rack), slot_capacity > 0"
// @Success      201   {object}  dto.SlotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/slots [post]
func (h *SlotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSlotRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	slot, err := h.engine.CreateSlot(c.UserContext(), inventory.CreateSlotInput{
		RackID:       in.RackID,
		Label:        in.Label,
		SlotCapacity: in.SlotCapacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSlotResponse(slot))
}

// GetByID godoc
// @Summary      Obtener slot
// @Tags         slots
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  dto.SlotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/slots/{id} [get]
func (h *SlotHandler) GetByID(c *fiber.Ctx) error {
	slot, err := h.engine.GetSlot(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSlotResponse(slot))
}

// ListByRack godoc
// @Summary      Listar slots de un rack
// @Tags         slots
// @Security     Bearer
// @Produce      json
// @Param        rackId  path  string  true  "Rack ID"
// @Success      200  {array}  dto.SlotResponse
// @Router       /api/racks/{rackId}/slots [get]
func (h *SlotHandler) ListByRack(c *fiber.Ctx) error {
	list, err := h.engine.ListSlotsByRack(c.UserContext(), c.Params("rackId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSlotResponses(list))
}

// GetByRackAndLabel godoc
// @Summary      Obtener slot por rack y etiqueta
// @Tags         slots
// @Security     Bearer
// @Produce      json
// @Param        rackId  path  string  true  "Rack ID"
// @Param        label   path  string  true  "Etiqueta del slot"
// @Success      200  {object}  dto.SlotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/racks/{rackId}/slots/{label} [get]
func (h *SlotHandler) GetByRackAndLabel(c *fiber.Ctx) error {
	slot, err := h.engine.GetSlotByRackAndLabel(c.UserContext(), c.Params("rackId"), c.Params("label"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSlotResponse(slot))
}

// Delete godoc
// @Summary      Eliminar slot sin ubicaciones
// @Tags         slots
// @Security     Bearer
// @Param        id   path  string  true  "Slot ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/slots/{id} [delete]
func (h *SlotHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.DeleteSlot(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Consistency godoc
// @Summary      Diagnóstico de ocupación de un slot
// @Description  Compara current_capacity con la suma de cantidades de sus ubicaciones.
// @Tags         slots
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  dto.SlotConsistencyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/slots/{id}/consistency [get]
func (h *SlotHandler) Consistency(c *fiber.Ctx) error {
	res, err := h.engine.CheckSlotConsistency(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSlotConsistencyResponse(*res))
}

// ConsistencyAll godoc
// @Summary      Diagnóstico de ocupación de todos los slots
// @Tags         slots
// @Security     Bearer
// @Produce      json
// @Param        only_drift  query  bool  false  "Solo slots inconsistentes"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/slots/consistency [get]
func (h *SlotHandler) ConsistencyAll(c *fiber.Ctx) error {
	list, err := h.engine.CheckAllSlots(c.UserContext(), c.QueryBool("only_drift", false))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SlotConsistencyResponse, 0, len(list))
	drifted := 0
	for _, r := range list {
		if !r.Consistent() {
			drifted++
		}
		out = append(out, dto.ToSlotConsistencyResponse(r))
	}
	return c.JSON(fiber.Map{
		"total":   len(out),
		"drifted": drifted,
		"slots":   out,
	})
}
