package repository

import (
	"context"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// SlotRepository puerto de persistencia de slots (Slot Store).
// No valida capacidad: la validación es responsabilidad del motor de inventario.
// Los métodos Get* devuelven (nil, nil) si el slot no existe.
type SlotRepository interface {
	Create(ctx context.Context, slot *entity.Slot) error
	GetByID(ctx context.Context, id string) (*entity.Slot, error)
	GetByRackAndLabel(ctx context.Context, rackID, label string) (*entity.Slot, error)
	// GetForUpdate bloquea la fila del slot hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Slot, error)
	// AdjustCurrentCapacity aplica current_capacity += delta y devuelve el slot resultante.
	AdjustCurrentCapacity(ctx context.Context, id string, delta int) (*entity.Slot, error)
	ListByRack(ctx context.Context, rackID string) ([]*entity.Slot, error)
	List(ctx context.Context) ([]*entity.Slot, error)
	Delete(ctx context.Context, id string) error
}
