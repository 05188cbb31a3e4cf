package entity

import "time"

// Slot posición de almacenamiento dentro de un rack con capacidad acotada.
// CurrentCapacity es la capacidad OCUPADA: 0 <= CurrentCapacity <= SlotCapacity.
type Slot struct {
	ID              string
	RackID          string
	Label           string // único dentro del rack
	SlotCapacity    int
	CurrentCapacity int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Free capacidad libre restante.
func (s *Slot) Free() int {
	return s.SlotCapacity - s.CurrentCapacity
}
