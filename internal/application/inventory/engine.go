package inventory

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

// Nombres de operación usados en logs y métricas.
const (
	OpCreatePlacement = "create_placement"
	OpUpdatePlacement = "update_placement"
	OpDeletePlacement = "delete_placement"
	OpMoveStock       = "move_stock"
	OpUpdateMovement  = "update_movement"
	OpCreateSlot      = "create_slot"
	OpDeleteSlot      = "delete_slot"
)

// Options ajustes de comportamiento del motor.
type Options struct {
	// ReconcileOnUpdate: update-placement aplica la diferencia de cantidad sobre la ocupación de
	// los slots. Desactivado, la edición no toca ningún contador.
	ReconcileOnUpdate bool
	// DeleteEmptyPlacements: un traslado que deja el origen en cero elimina la ubicación.
	// Desactivado, la ubicación queda registrada con cantidad 0.
	DeleteEmptyPlacements bool
}

// EngineDeps dependencias del motor de consistencia de capacidad.
type EngineDeps struct {
	TxRunner   TxRunner
	Slots      repository.SlotRepository
	Placements repository.PlacementRepository
	Movements  repository.MovementRepository
	Publisher  EventPublisher
	Metrics    MetricsRecorder
	Logger     zerolog.Logger
	Options    Options
	Now        func() time.Time
}

// Engine motor de consistencia de capacidad: único componente que modifica slots, ubicaciones
// y movimientos, siempre dentro de una transacción (todas las escrituras o ninguna).
type Engine struct {
	tx         TxRunner
	slots      repository.SlotRepository
	placements repository.PlacementRepository
	movements  repository.MovementRepository
	publisher  EventPublisher
	metrics    MetricsRecorder
	log        zerolog.Logger
	opts       Options
	now        func() time.Time
}

// NewEngine construye el motor. Publisher, Metrics y Now son opcionales.
func NewEngine(deps EngineDeps) *Engine {
	e := &Engine{
		tx:         deps.TxRunner,
		slots:      deps.Slots,
		placements: deps.Placements,
		movements:  deps.Movements,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		log:        deps.Logger,
		opts:       deps.Options,
		now:        deps.Now,
	}
	if e.publisher == nil {
		e.publisher = nopPublisher{}
	}
	if e.metrics == nil {
		e.metrics = nopMetrics{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// execute corre fn en una transacción, convierte fallas de infraestructura en ErrStorageFailure
// y registra la métrica de la operación.
func (e *Engine) execute(ctx context.Context, op string, fn func(
	slotRepo repository.SlotRepository,
	placementRepo repository.PlacementRepository,
	movRepo repository.MovementRepository,
) error) error {
	start := time.Now()
	err := domain.AsStorageFailure(e.tx.Run(ctx, fn))
	e.metrics.ObserveOperation(op, err, time.Since(start))
	if err != nil {
		e.logFailure(op, err)
	}
	return err
}

func (e *Engine) logFailure(op string, err error) {
	ev := e.log.Warn()
	if domain.KindOf(err) == domain.KindSystem {
		ev = e.log.Error()
	}
	ev.Err(err).Str("operation", op).Str("code", domain.CodeOf(err)).Msg("operación de inventario rechazada")
}

// publish notifica un evento confirmado; un fallo de publicación no revierte la operación.
func (e *Engine) publish(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = e.now()
	}
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.log.Error().Err(err).Str("event_type", ev.Type).Str("item_id", ev.ItemID).Msg("publicar evento de inventario")
	}
}

// lockSlots bloquea los slots indicados en orden ascendente de ID para evitar interbloqueos
// entre transacciones concurrentes. Los slots inexistentes quedan fuera del mapa.
func lockSlots(ctx context.Context, slotRepo repository.SlotRepository, ids ...string) (map[string]*entity.Slot, error) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)
	out := make(map[string]*entity.Slot, len(ordered))
	for _, id := range ordered {
		s, err := slotRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out[id] = s
		}
	}
	return out, nil
}
