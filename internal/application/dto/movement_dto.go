package dto

import (
	"time"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// MoveStockRequest body para POST /api/stock-movements.
// from_rack_id/to_rack_id son opcionales; si vienen deben coincidir con los racks de los slots.
type MoveStockRequest struct {
	ItemID       string     `json:"item_id" validate:"required,max=64"`
	FromRackID   string     `json:"from_rack_id" validate:"omitempty,max=64"`
	FromSlotID   string     `json:"from_slot_id" validate:"required,max=64"`
	ToRackID     string     `json:"to_rack_id" validate:"omitempty,max=64"`
	ToSlotID     string     `json:"to_slot_id" validate:"required,max=64"`
	Quantity     int        `json:"quantity"`
	MovementDate *time.Time `json:"movement_date,omitempty"`
	MovedBy      string     `json:"moved_by" validate:"omitempty,max=128"`
}

// UpdateMovementRequest body para PUT /api/stock-movements/:id (solo campos descriptivos).
type UpdateMovementRequest struct {
	FromRackID   string     `json:"from_rack_id" validate:"omitempty,max=64"`
	ToRackID     string     `json:"to_rack_id" validate:"omitempty,max=64"`
	MovementDate *time.Time `json:"movement_date,omitempty"`
	MovedBy      string     `json:"moved_by" validate:"omitempty,max=128"`
}

// MovementListQuery filtros de GET /api/stock-movements.
type MovementListQuery struct {
	ItemID string `query:"item_id" validate:"omitempty,max=64"`
	SlotID string `query:"slot_id" validate:"omitempty,max=64"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
	Offset int    `query:"offset" validate:"min=0"`
}

// Page paginación con valores por defecto aplicados.
func (q MovementListQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// MovementResponse registro del libro de movimientos.
type MovementResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	FromRackID   string    `json:"from_rack_id"`
	FromSlotID   string    `json:"from_slot_id"`
	ToRackID     string    `json:"to_rack_id"`
	ToSlotID     string    `json:"to_slot_id"`
	Quantity     int       `json:"quantity"`
	MovementDate time.Time `json:"movement_date"`
	MovedBy      string    `json:"moved_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToMovementResponse mapea la entidad a la respuesta.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		FromRackID:   m.FromRackID,
		FromSlotID:   m.FromSlotID,
		ToRackID:     m.ToRackID,
		ToSlotID:     m.ToSlotID,
		Quantity:     m.Quantity,
		MovementDate: m.MovementDate,
		MovedBy:      m.MovedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista (nunca nil).
func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
