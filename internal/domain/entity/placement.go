package entity

import "time"

// Placement ("rack item") registra que un ítem ocupa un slot en cierta cantidad.
type Placement struct {
	ID             string
	ItemID         string
	SlotID         string
	Quantity       int
	DateStored     time.Time
	LabelGenerated bool
	MaterialCode   string
	UpdatedAt      time.Time
}

// IsEmpty indica una ubicación que quedó en cero tras mover todo su contenido.
func (p *Placement) IsEmpty() bool {
	return p.Quantity == 0
}
