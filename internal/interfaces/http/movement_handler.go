package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rack-inventario-api/internal/application/dto"
	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// MovementHandler traslados de stock y libro de movimientos (protegido).
type MovementHandler struct {
	engine *inventory.Engine
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *inventory.Engine) *MovementHandler {
	return &MovementHandler{engine: engine}
}

// MoveStock godoc
// @Summary      Trasladar stock entre slots
// @Description  Descuenta del origen, suma en el destino y registra el movimiento en una sola transacción.
// @Description  moved_by vacío toma el usuario del token.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MoveStockRequest  true  "item_id, from_slot_id, to_slot_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *MovementHandler) MoveStock(c *fiber.Ctx) error {
	var in dto.MoveStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	movedBy := in.MovedBy
	if movedBy == "" {
		movedBy = GetUserID(c)
	}
	m, err := h.engine.MoveStock(c.UserContext(), inventory.MoveStockInput{
		ItemID:       in.ItemID,
		FromRackID:   in.FromRackID,
		FromSlotID:   in.FromSlotID,
		ToRackID:     in.ToRackID,
		ToSlotID:     in.ToSlotID,
		Quantity:     in.Quantity,
		MovementDate: derefTime(in.MovementDate),
		MovedBy:      movedBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Param        slot_id  query  string  false  "Filtrar por slot (origen o destino)"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Param        limit    query  int     false  "Máximo 500, por defecto 50"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if ok, err := checkStruct(c, &q); !ok {
		return err
	}
	page := q.Page()
	from, okFrom := queryTime(c, "from")
	to, okTo := queryTime(c, "to")
	if !okFrom || !okTo {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC3339"})
	}

	list, err := h.engine.ListMovements(c.UserContext(), entity.MovementFilter{
		ItemID: q.ItemID,
		SlotID: q.SlotID,
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.ToMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Movement ID"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.engine.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(m))
}

// Update godoc
// @Summary      Corregir movimiento
// @Description  Solo fecha, responsable y racks; no re-aplica efectos de capacidad.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Movement ID"
// @Param        body  body      dto.UpdateMovementRequest  true  "campos a corregir"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	m, err := h.engine.UpdateMovement(c.UserContext(), inventory.UpdateMovementInput{
		ID:           c.Params("id"),
		FromRackID:   in.FromRackID,
		ToRackID:     in.ToRackID,
		MovementDate: derefTime(in.MovementDate),
		MovedBy:      in.MovedBy,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(m))
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// queryTime lee un parámetro RFC3339 opcional; false si viene mal formado.
func queryTime(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
