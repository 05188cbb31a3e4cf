package repository

import (
	"context"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// PlacementRepository puerto de persistencia de ubicaciones ítem-slot (Placement Store).
// Los métodos Get*/Find* devuelven (nil, nil) si no hay registro.
type PlacementRepository interface {
	Create(ctx context.Context, placement *entity.Placement) error
	GetByID(ctx context.Context, id string) (*entity.Placement, error)
	// GetForUpdate igual que GetByID pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Placement, error)
	// FindByItemAndSlot devuelve la ubicación más antigua con cantidad del ítem en el slot (o una vacía
	// si no hay otra); la usan el origen y la fusión de un movimiento. Bloquea la fila.
	FindByItemAndSlot(ctx context.Context, itemID, slotID string) (*entity.Placement, error)
	Update(ctx context.Context, placement *entity.Placement) error
	Delete(ctx context.Context, id string) error
	ListBySlot(ctx context.Context, slotID string) ([]*entity.Placement, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.Placement, error)
	// SumQuantityBySlot suma las cantidades ubicadas en un slot (diagnóstico de consistencia).
	SumQuantityBySlot(ctx context.Context, slotID string) (int, error)
	CountBySlot(ctx context.Context, slotID string) (int, error)
}
