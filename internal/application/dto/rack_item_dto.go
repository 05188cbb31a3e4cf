package dto

import (
	"time"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// CreateRackItemRequest body para POST /api/rack-items.
// La cantidad la valida el motor (INVALID_QUANTITY), no el validador de entrada.
type CreateRackItemRequest struct {
	ItemID       string `json:"item_id" validate:"required,max=64"`
	SlotID       string `json:"slot_id" validate:"required,max=64"`
	Quantity     int    `json:"quantity"`
	MaterialCode string `json:"material_code" validate:"omitempty,max=64"`
}

// UpdateRackItemRequest body para PUT /api/rack-items/:id.
type UpdateRackItemRequest struct {
	ItemID         string `json:"item_id" validate:"required,max=64"`
	SlotID         string `json:"slot_id" validate:"required,max=64"`
	Quantity       int    `json:"quantity"`
	MaterialCode   string `json:"material_code" validate:"omitempty,max=64"`
	LabelGenerated *bool  `json:"label_generated,omitempty"`
}

// RackItemResponse ubicación de un ítem en un slot.
type RackItemResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	SlotID         string    `json:"slot_id"`
	Quantity       int       `json:"quantity"`
	Empty          bool      `json:"empty"`
	DateStored     time.Time `json:"date_stored"`
	LabelGenerated bool      `json:"label_generated"`
	MaterialCode   string    `json:"material_code,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToRackItemResponse mapea la entidad a la respuesta.
func ToRackItemResponse(p *entity.Placement) RackItemResponse {
	return RackItemResponse{
		ID:             p.ID,
		ItemID:         p.ItemID,
		SlotID:         p.SlotID,
		Quantity:       p.Quantity,
		Empty:          p.IsEmpty(),
		DateStored:     p.DateStored,
		LabelGenerated: p.LabelGenerated,
		MaterialCode:   p.MaterialCode,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToRackItemResponses mapea una lista (nunca nil).
func ToRackItemResponses(list []*entity.Placement) []RackItemResponse {
	out := make([]RackItemResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToRackItemResponse(p))
	}
	return out
}
