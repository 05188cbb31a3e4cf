package entity

import "time"

// Movement traslado registrado de una cantidad de un ítem entre dos slots.
type Movement struct {
	ID           string
	ItemID       string
	FromRackID   string
	FromSlotID   string
	ToRackID     string
	ToSlotID     string
	Quantity     int
	MovementDate time.Time
	MovedBy      string
	CreatedAt    time.Time
}

// MovementFilter filtros para listar el historial de movimientos.
type MovementFilter struct {
	ItemID string
	SlotID string // coincide con origen o destino
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
