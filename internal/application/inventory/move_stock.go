package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/domain/capacity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

// MoveStockInput entrada para trasladar una cantidad de un ítem entre dos slots.
// FromRackID/ToRackID son opcionales: si vienen vacíos se toman de los slots.
// MovementDate cero equivale a "ahora".
type MoveStockInput struct {
	ItemID       string
	FromRackID   string
	FromSlotID   string
	ToRackID     string
	ToSlotID     string
	Quantity     int
	MovementDate time.Time
	MovedBy      string
}

// UpdateMovementInput campos del libro que se pueden corregir. No re-aplica efectos de capacidad.
type UpdateMovementInput struct {
	ID           string
	FromRackID   string
	ToRackID     string
	MovementDate time.Time
	MovedBy      string
}

// MoveStock traslada Quantity unidades del ítem desde FromSlotID hacia ToSlotID.
// En una sola transacción: descuenta la ubicación y la ocupación de origen, suma en la ubicación
// de destino (o la crea) y en la ocupación de destino, y registra el movimiento.
// Las validaciones se evalúan sobre filas bloqueadas justo antes de escribir.
func (e *Engine) MoveStock(ctx context.Context, in MoveStockInput) (*entity.Movement, error) {
	if in.ItemID == "" || in.FromSlotID == "" || in.ToSlotID == "" || !capacity.ValidQuantity(in.Quantity) {
		e.metrics.ObserveOperation(OpMoveStock, domain.ErrInvalidRequest, 0)
		return nil, domain.ErrInvalidRequest
	}
	if in.FromSlotID == in.ToSlotID {
		e.metrics.ObserveOperation(OpMoveStock, domain.ErrInvalidRequest, 0)
		return nil, domain.ErrInvalidRequest
	}

	now := e.now()
	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = now
	}

	var recorded *entity.Movement
	var sourceEmptied bool
	err := e.execute(ctx, OpMoveStock, func(
		slotRepo repository.SlotRepository,
		placementRepo repository.PlacementRepository,
		movRepo repository.MovementRepository,
	) error {
		// Orden de bloqueo: slots (ID ascendente) y luego ubicaciones
		locked, err := lockSlots(ctx, slotRepo, in.FromSlotID, in.ToSlotID)
		if err != nil {
			return err
		}
		source, err := placementRepo.FindByItemAndSlot(ctx, in.ItemID, in.FromSlotID)
		if err != nil {
			return err
		}
		if source == nil {
			return domain.ErrSourceNotFound
		}
		if source.Quantity < in.Quantity {
			return domain.ErrInsufficientSourceQuantity
		}
		destSlot := locked[in.ToSlotID]
		if destSlot == nil {
			return domain.ErrDestinationSlotNotFound
		}
		sourceSlot := locked[in.FromSlotID]
		if sourceSlot == nil {
			return domain.ErrSlotNotFound
		}
		fromRack, toRack, err := resolveRacks(in, sourceSlot, destSlot)
		if err != nil {
			return err
		}
		if !capacity.CanReserve(destSlot.SlotCapacity, destSlot.CurrentCapacity, in.Quantity) {
			return domain.ErrInsufficientDestinationCapacity
		}

		// a. ubicación de origen
		source.Quantity -= in.Quantity
		source.UpdatedAt = now
		if source.IsEmpty() && e.opts.DeleteEmptyPlacements {
			if err := placementRepo.Delete(ctx, source.ID); err != nil {
				return err
			}
			sourceEmptied = true
		} else if err := placementRepo.Update(ctx, source); err != nil {
			return err
		}

		// b. ocupación de origen
		next, drift := capacity.Release(sourceSlot.CurrentCapacity, in.Quantity)
		e.warnDrift(sourceSlot.ID, drift)
		if _, err := slotRepo.AdjustCurrentCapacity(ctx, sourceSlot.ID, next-sourceSlot.CurrentCapacity); err != nil {
			return err
		}

		// c. ubicación de destino: fusiona con la existente o crea una nueva
		dest, err := placementRepo.FindByItemAndSlot(ctx, in.ItemID, in.ToSlotID)
		if err != nil {
			return err
		}
		if dest != nil {
			dest.Quantity += in.Quantity
			dest.UpdatedAt = now
			if err := placementRepo.Update(ctx, dest); err != nil {
				return err
			}
		} else {
			dest = &entity.Placement{
				ID:         uuid.New().String(),
				ItemID:     in.ItemID,
				SlotID:     in.ToSlotID,
				Quantity:   in.Quantity,
				DateStored: movementDate,
				UpdatedAt:  now,
			}
			if err := placementRepo.Create(ctx, dest); err != nil {
				return err
			}
		}

		// d. ocupación de destino
		if _, err := slotRepo.AdjustCurrentCapacity(ctx, destSlot.ID, in.Quantity); err != nil {
			return err
		}

		// e. libro de movimientos
		mov := &entity.Movement{
			ID:           uuid.New().String(),
			ItemID:       in.ItemID,
			FromRackID:   fromRack,
			FromSlotID:   in.FromSlotID,
			ToRackID:     toRack,
			ToSlotID:     in.ToSlotID,
			Quantity:     in.Quantity,
			MovementDate: movementDate,
			MovedBy:      in.MovedBy,
			CreatedAt:    now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		recorded = mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("operation", OpMoveStock).
		Str("movement_id", recorded.ID).
		Str("item_id", recorded.ItemID).
		Str("from_slot_id", recorded.FromSlotID).
		Str("to_slot_id", recorded.ToSlotID).
		Int("quantity", recorded.Quantity).
		Str("moved_by", recorded.MovedBy).
		Bool("source_emptied", sourceEmptied).
		Msg("stock trasladado")
	e.publish(ctx, Event{Type: EventStockMoved, ItemID: recorded.ItemID, Actor: recorded.MovedBy, OccurredAt: now, Movement: recorded})
	return recorded, nil
}

// resolveRacks completa los racks de origen/destino desde los slots y rechaza racks que no coinciden.
func resolveRacks(in MoveStockInput, from, to *entity.Slot) (string, string, error) {
	fromRack, toRack := in.FromRackID, in.ToRackID
	if fromRack == "" {
		fromRack = from.RackID
	}
	if toRack == "" {
		toRack = to.RackID
	}
	if fromRack != from.RackID || toRack != to.RackID {
		return "", "", domain.ErrInvalidRequest
	}
	return fromRack, toRack, nil
}

// GetMovement obtiene un movimiento del libro.
func (e *Engine) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := e.movements.GetByID(ctx, id)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	if m == nil {
		return nil, domain.ErrMovementNotFound
	}
	return m, nil
}

// ListMovements lista el historial de movimientos, más recientes primero.
func (e *Engine) ListMovements(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := e.movements.List(ctx, filter)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return list, nil
}

// UpdateMovement corrige campos descriptivos de un movimiento (fecha, responsable, racks).
// Ítem, slots y cantidad no se modifican y no se recalcula ninguna capacidad.
func (e *Engine) UpdateMovement(ctx context.Context, in UpdateMovementInput) (*entity.Movement, error) {
	if in.ID == "" {
		e.metrics.ObserveOperation(OpUpdateMovement, domain.ErrInvalidRequest, 0)
		return nil, domain.ErrInvalidRequest
	}
	var updated *entity.Movement
	err := e.execute(ctx, OpUpdateMovement, func(
		_ repository.SlotRepository,
		_ repository.PlacementRepository,
		movRepo repository.MovementRepository,
	) error {
		m, err := movRepo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrMovementNotFound
		}
		if in.FromRackID != "" {
			m.FromRackID = in.FromRackID
		}
		if in.ToRackID != "" {
			m.ToRackID = in.ToRackID
		}
		if !in.MovementDate.IsZero() {
			m.MovementDate = in.MovementDate
		}
		if in.MovedBy != "" {
			m.MovedBy = in.MovedBy
		}
		if err := movRepo.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("operation", OpUpdateMovement).Str("movement_id", updated.ID).Msg("movimiento corregido")
	return updated, nil
}
