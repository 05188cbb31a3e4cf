package repository

import (
	"context"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos (Movement Ledger), solo inserción
// salvo Update, que sobrescribe campos descriptivos sin efectos de capacidad.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
}
