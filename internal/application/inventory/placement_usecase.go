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

// CreatePlacementInput entrada para ubicar un ítem en un slot.
type CreatePlacementInput struct {
	ItemID       string
	SlotID       string
	Quantity     int
	MaterialCode string
	Actor        string
}

// UpdatePlacementInput entrada para editar una ubicación existente.
// LabelGenerated nil conserva el valor actual.
type UpdatePlacementInput struct {
	ID             string
	ItemID         string
	SlotID         string
	Quantity       int
	MaterialCode   string
	LabelGenerated *bool
	Actor          string
}

// CreatePlacement valida la cantidad y el espacio libre del slot, crea la ubicación y suma la
// cantidad a la ocupación del slot, todo en la misma transacción.
func (e *Engine) CreatePlacement(ctx context.Context, in CreatePlacementInput) (*entity.Placement, error) {
	if !capacity.ValidQuantity(in.Quantity) {
		e.metrics.ObserveOperation(OpCreatePlacement, domain.ErrInvalidQuantity, 0)
		return nil, domain.ErrInvalidQuantity
	}
	if in.ItemID == "" || in.SlotID == "" {
		e.metrics.ObserveOperation(OpCreatePlacement, domain.ErrInvalidRequest, 0)
		return nil, domain.ErrInvalidRequest
	}

	now := e.now()
	var created *entity.Placement
	var slotAfter *entity.Slot
	err := e.execute(ctx, OpCreatePlacement, func(
		slotRepo repository.SlotRepository,
		placementRepo repository.PlacementRepository,
		_ repository.MovementRepository,
	) error {
		// Bloquea la fila del slot: la validación y la escritura ven la misma ocupación
		slot, err := slotRepo.GetForUpdate(ctx, in.SlotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return domain.ErrSlotNotFound
		}
		if !capacity.CanReserve(slot.SlotCapacity, slot.CurrentCapacity, in.Quantity) {
			return domain.ErrInsufficientCapacity
		}
		p := &entity.Placement{
			ID:           uuid.New().String(),
			ItemID:       in.ItemID,
			SlotID:       in.SlotID,
			Quantity:     in.Quantity,
			DateStored:   now,
			MaterialCode: in.MaterialCode,
			UpdatedAt:    now,
		}
		if err := placementRepo.Create(ctx, p); err != nil {
			return err
		}
		slotAfter, err = slotRepo.AdjustCurrentCapacity(ctx, slot.ID, capacity.Reserve(slot.CurrentCapacity, in.Quantity)-slot.CurrentCapacity)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("operation", OpCreatePlacement).
		Str("placement_id", created.ID).
		Str("item_id", created.ItemID).
		Str("slot_id", created.SlotID).
		Int("quantity", created.Quantity).
		Int("slot_current_capacity", slotAfter.CurrentCapacity).
		Msg("ítem ubicado")
	e.publish(ctx, Event{Type: EventPlacementCreated, ItemID: created.ItemID, Actor: in.Actor, OccurredAt: now, Placement: created})
	return created, nil
}

// UpdatePlacement sobrescribe ítem, slot, cantidad y código de material de una ubicación.
// Sin Options.ReconcileOnUpdate no ajusta la ocupación de ningún slot; con la opción activa
// libera la cantidad anterior del slot anterior y reserva la nueva en el slot destino.
func (e *Engine) UpdatePlacement(ctx context.Context, in UpdatePlacementInput) (*entity.Placement, error) {
	if in.ID == "" || in.ItemID == "" || in.SlotID == "" {
		e.metrics.ObserveOperation(OpUpdatePlacement, domain.ErrInvalidRequest, 0)
		return nil, domain.ErrInvalidRequest
	}

	now := e.now()
	var updated *entity.Placement
	err := e.execute(ctx, OpUpdatePlacement, func(
		slotRepo repository.SlotRepository,
		placementRepo repository.PlacementRepository,
		_ repository.MovementRepository,
	) error {
		current, err := placementRepo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrPlacementNotFound
		}
		if !capacity.ValidQuantity(in.Quantity) {
			return domain.ErrInvalidQuantity
		}

		if !e.opts.ReconcileOnUpdate {
			target, err := slotRepo.GetByID(ctx, in.SlotID)
			if err != nil {
				return err
			}
			if target == nil {
				return domain.ErrSlotNotFound
			}
			current, err = placementRepo.GetForUpdate(ctx, in.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrPlacementNotFound
			}
			applyPlacementUpdate(current, in, now)
			if err := placementRepo.Update(ctx, current); err != nil {
				return err
			}
			updated = current
			return nil
		}

		locked, err := lockSlots(ctx, slotRepo, current.SlotID, in.SlotID)
		if err != nil {
			return err
		}
		current, err = placementRepo.GetForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrPlacementNotFound
		}
		if _, ok := locked[current.SlotID]; !ok {
			// la ubicación cambió de slot entre la lectura y el bloqueo
			previous, err := slotRepo.GetForUpdate(ctx, current.SlotID)
			if err != nil {
				return err
			}
			if previous != nil {
				locked[current.SlotID] = previous
			}
		}
		target := locked[in.SlotID]
		if target == nil {
			return domain.ErrSlotNotFound
		}
		if err := e.reconcileUpdate(ctx, slotRepo, locked, current, in); err != nil {
			return err
		}
		applyPlacementUpdate(current, in, now)
		if err := placementRepo.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("operation", OpUpdatePlacement).
		Str("placement_id", updated.ID).
		Str("item_id", updated.ItemID).
		Str("slot_id", updated.SlotID).
		Int("quantity", updated.Quantity).
		Bool("reconciled", e.opts.ReconcileOnUpdate).
		Msg("ubicación actualizada")
	e.publish(ctx, Event{Type: EventPlacementUpdated, ItemID: updated.ItemID, Actor: in.Actor, OccurredAt: now, Placement: updated})
	return updated, nil
}

// reconcileUpdate libera la cantidad previa y reserva la nueva sobre los slots ya bloqueados.
func (e *Engine) reconcileUpdate(
	ctx context.Context,
	slotRepo repository.SlotRepository,
	locked map[string]*entity.Slot,
	current *entity.Placement,
	in UpdatePlacementInput,
) error {
	target := locked[in.SlotID]
	if current.SlotID == in.SlotID {
		delta := in.Quantity - current.Quantity
		if delta > 0 && !capacity.CanReserve(target.SlotCapacity, target.CurrentCapacity, delta) {
			return domain.ErrInsufficientCapacity
		}
		if delta < 0 {
			next, drift := capacity.Release(target.CurrentCapacity, -delta)
			e.warnDrift(target.ID, drift)
			delta = next - target.CurrentCapacity
		}
		if delta == 0 {
			return nil
		}
		_, err := slotRepo.AdjustCurrentCapacity(ctx, target.ID, delta)
		return err
	}

	if !capacity.CanReserve(target.SlotCapacity, target.CurrentCapacity, in.Quantity) {
		return domain.ErrInsufficientCapacity
	}
	if previous := locked[current.SlotID]; previous != nil {
		next, drift := capacity.Release(previous.CurrentCapacity, current.Quantity)
		e.warnDrift(previous.ID, drift)
		if _, err := slotRepo.AdjustCurrentCapacity(ctx, previous.ID, next-previous.CurrentCapacity); err != nil {
			return err
		}
	} else {
		e.log.Warn().
			Str("placement_id", current.ID).
			Str("slot_id", current.SlotID).
			Msg("slot anterior inexistente; no se libera ocupación")
	}
	_, err := slotRepo.AdjustCurrentCapacity(ctx, target.ID, in.Quantity)
	return err
}

func applyPlacementUpdate(p *entity.Placement, in UpdatePlacementInput, now time.Time) {
	p.ItemID = in.ItemID
	p.SlotID = in.SlotID
	p.Quantity = in.Quantity
	p.MaterialCode = in.MaterialCode
	if in.LabelGenerated != nil {
		p.LabelGenerated = *in.LabelGenerated
	}
	p.UpdatedAt = now
}

// DeletePlacement elimina la ubicación y descuenta su cantidad completa de la ocupación del slot.
func (e *Engine) DeletePlacement(ctx context.Context, id, actor string) error {
	if id == "" {
		e.metrics.ObserveOperation(OpDeletePlacement, domain.ErrInvalidRequest, 0)
		return domain.ErrInvalidRequest
	}

	var deleted *entity.Placement
	var slotAfter *entity.Slot
	err := e.execute(ctx, OpDeletePlacement, func(
		slotRepo repository.SlotRepository,
		placementRepo repository.PlacementRepository,
		_ repository.MovementRepository,
	) error {
		p, err := placementRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrPlacementNotFound
		}
		// Orden de bloqueo: slot y luego ubicación
		slot, err := slotRepo.GetForUpdate(ctx, p.SlotID)
		if err != nil {
			return err
		}
		p, err = placementRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrPlacementNotFound
		}
		if slot == nil || slot.ID != p.SlotID {
			// la ubicación cambió de slot entre la lectura y el bloqueo
			slot, err = slotRepo.GetForUpdate(ctx, p.SlotID)
			if err != nil {
				return err
			}
		}
		if slot != nil {
			next, drift := capacity.Release(slot.CurrentCapacity, p.Quantity)
			e.warnDrift(slot.ID, drift)
			slotAfter, err = slotRepo.AdjustCurrentCapacity(ctx, slot.ID, next-slot.CurrentCapacity)
			if err != nil {
				return err
			}
		}
		if err := placementRepo.Delete(ctx, p.ID); err != nil {
			return err
		}
		deleted = p
		return nil
	})
	if err != nil {
		return err
	}

	ev := e.log.Info().
		Str("operation", OpDeletePlacement).
		Str("placement_id", deleted.ID).
		Str("item_id", deleted.ItemID).
		Str("slot_id", deleted.SlotID).
		Int("quantity", deleted.Quantity)
	if slotAfter != nil {
		ev = ev.Int("slot_current_capacity", slotAfter.CurrentCapacity)
	}
	ev.Msg("ubicación eliminada")
	e.publish(ctx, Event{Type: EventPlacementDeleted, ItemID: deleted.ItemID, Actor: actor, Placement: deleted})
	return nil
}

// GetPlacement obtiene una ubicación por ID.
func (e *Engine) GetPlacement(ctx context.Context, id string) (*entity.Placement, error) {
	p, err := e.placements.GetByID(ctx, id)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	if p == nil {
		return nil, domain.ErrPlacementNotFound
	}
	return p, nil
}

// ListPlacementsBySlot lista las ubicaciones de un slot (incluye las vacías).
func (e *Engine) ListPlacementsBySlot(ctx context.Context, slotID string) ([]*entity.Placement, error) {
	list, err := e.placements.ListBySlot(ctx, slotID)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return list, nil
}

// ListPlacementsByItem lista dónde está ubicado un ítem.
func (e *Engine) ListPlacementsByItem(ctx context.Context, itemID string) ([]*entity.Placement, error) {
	list, err := e.placements.ListByItem(ctx, itemID)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return list, nil
}

func (e *Engine) warnDrift(slotID string, drift int) {
	if drift == 0 {
		return
	}
	e.log.Warn().
		Str("slot_id", slotID).
		Int("drift", drift).
		Msg("ocupación del slot menor que la cantidad liberada; se ajusta a cero")
}
