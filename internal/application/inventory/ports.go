package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el commit falla) no queda ningún cambio persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		slotRepo repository.SlotRepository,
		placementRepo repository.PlacementRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// EventPublisher publica eventos de inventario ya confirmados (después del commit).
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// MetricsRecorder registra el resultado y la duración de cada operación del motor.
type MetricsRecorder interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error, time.Duration) {}
