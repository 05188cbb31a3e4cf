package dto

import (
	"time"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// CreateSlotRequest body para POST /api/slots.
type CreateSlotRequest struct {
	RackID       string `json:"rack_id" validate:"required,max=64"`
	Label        string `json:"label" validate:"required,max=32,slot_label"`
	SlotCapacity int    `json:"slot_capacity"`
}

// SlotResponse slot con su ocupación y espacio libre.
type SlotResponse struct {
	ID              string    `json:"id"`
	RackID          string    `json:"rack_id"`
	Label           string    `json:"label"`
	SlotCapacity    int       `json:"slot_capacity"`
	CurrentCapacity int       `json:"current_capacity"` // ocupación
	FreeCapacity    int       `json:"free_capacity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SlotConsistencyResponse resultado del diagnóstico de un slot.
type SlotConsistencyResponse struct {
	SlotID          string `json:"slot_id"`
	RackID          string `json:"rack_id"`
	Label           string `json:"label"`
	SlotCapacity    int    `json:"slot_capacity"`
	CurrentCapacity int    `json:"current_capacity"`
	PlacedQuantity  int    `json:"placed_quantity"`
	Drift           int    `json:"drift"`
	Consistent      bool   `json:"consistent"`
}

// ToSlotResponse mapea la entidad a la respuesta.
func ToSlotResponse(s *entity.Slot) SlotResponse {
	return SlotResponse{
		ID:              s.ID,
		RackID:          s.RackID,
		Label:           s.Label,
		SlotCapacity:    s.SlotCapacity,
		CurrentCapacity: s.CurrentCapacity,
		FreeCapacity:    s.Free(),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ToSlotResponses mapea una lista (nunca nil).
func ToSlotResponses(list []*entity.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSlotResponse(s))
	}
	return out
}

// ToSlotConsistencyResponse mapea el diagnóstico.
func ToSlotConsistencyResponse(c entity.SlotConsistency) SlotConsistencyResponse {
	return SlotConsistencyResponse{
		SlotID:          c.SlotID,
		RackID:          c.RackID,
		Label:           c.Label,
		SlotCapacity:    c.SlotCapacity,
		CurrentCapacity: c.CurrentCapacity,
		PlacedQuantity:  c.PlacedQuantity,
		Drift:           c.Drift,
		Consistent:      c.Consistent(),
	}
}
