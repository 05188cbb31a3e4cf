package inventory

import (
	"time"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// Tipos de evento publicados tras cada operación confirmada.
const (
	EventPlacementCreated = "placement.created"
	EventPlacementUpdated = "placement.updated"
	EventPlacementDeleted = "placement.deleted"
	EventStockMoved       = "stock.moved"
)

// Event notificación de un cambio de inventario ya confirmado.
type Event struct {
	Type       string
	ItemID     string
	Actor      string
	OccurredAt time.Time
	Placement  *entity.Placement
	Movement   *entity.Movement
}
