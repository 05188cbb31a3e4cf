package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

// CreateSlotInput entrada para dar de alta un slot en un rack.
type CreateSlotInput struct {
	RackID       string
	Label        string
	SlotCapacity int
}

// CreateSlot da de alta un slot vacío. La etiqueta es única dentro del rack.
func (e *Engine) CreateSlot(ctx context.Context, in CreateSlotInput) (*entity.Slot, error) {
	in.Label = strings.TrimSpace(in.Label)
	if in.RackID == "" || in.Label == "" {
		return nil, domain.ErrInvalidRequest
	}
	if in.SlotCapacity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	now := e.now()
	var created *entity.Slot
	err := e.execute(ctx, OpCreateSlot, func(
		slotRepo repository.SlotRepository,
		_ repository.PlacementRepository,
		_ repository.MovementRepository,
	) error {
		existing, err := slotRepo.GetByRackAndLabel(ctx, in.RackID, in.Label)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		s := &entity.Slot{
			ID:           uuid.New().String(),
			RackID:       in.RackID,
			Label:        in.Label,
			SlotCapacity: in.SlotCapacity,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := slotRepo.Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("operation", OpCreateSlot).Str("slot_id", created.ID).Str("rack_id", created.RackID).
		Str("label", created.Label).Int("slot_capacity", created.SlotCapacity).Msg("slot creado")
	return created, nil
}

// GetSlot obtiene un slot por ID.
func (e *Engine) GetSlot(ctx context.Context, id string) (*entity.Slot, error) {
	s, err := e.slots.GetByID(ctx, id)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	if s == nil {
		return nil, domain.ErrSlotNotFound
	}
	return s, nil
}

// GetSlotByRackAndLabel obtiene un slot por rack y etiqueta.
func (e *Engine) GetSlotByRackAndLabel(ctx context.Context, rackID, label string) (*entity.Slot, error) {
	s, err := e.slots.GetByRackAndLabel(ctx, rackID, label)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	if s == nil {
		return nil, domain.ErrSlotNotFound
	}
	return s, nil
}

// ListSlotsByRack lista los slots de un rack ordenados por etiqueta.
func (e *Engine) ListSlotsByRack(ctx context.Context, rackID string) ([]*entity.Slot, error) {
	list, err := e.slots.ListByRack(ctx, rackID)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	return list, nil
}

// DeleteSlot elimina un slot sin ubicaciones (ni siquiera vacías).
func (e *Engine) DeleteSlot(ctx context.Context, id string) error {
	err := e.execute(ctx, OpDeleteSlot, func(
		slotRepo repository.SlotRepository,
		placementRepo repository.PlacementRepository,
		_ repository.MovementRepository,
	) error {
		s, err := slotRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrSlotNotFound
		}
		n, err := placementRepo.CountBySlot(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrSlotNotEmpty
		}
		return slotRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("operation", OpDeleteSlot).Str("slot_id", id).Msg("slot eliminado")
	return nil
}

// CheckSlotConsistency compara la ocupación registrada del slot con la suma de sus ubicaciones.
func (e *Engine) CheckSlotConsistency(ctx context.Context, slotID string) (*entity.SlotConsistency, error) {
	s, err := e.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	c, err := e.consistencyOf(ctx, s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CheckAllSlots revisa todos los slots; con onlyDrift solo devuelve los inconsistentes.
func (e *Engine) CheckAllSlots(ctx context.Context, onlyDrift bool) ([]entity.SlotConsistency, error) {
	slots, err := e.slots.List(ctx)
	if err != nil {
		return nil, domain.AsStorageFailure(err)
	}
	out := make([]entity.SlotConsistency, 0, len(slots))
	for _, s := range slots {
		c, err := e.consistencyOf(ctx, s)
		if err != nil {
			return nil, err
		}
		if onlyDrift && c.Consistent() {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (e *Engine) consistencyOf(ctx context.Context, s *entity.Slot) (entity.SlotConsistency, error) {
	sum, err := e.placements.SumQuantityBySlot(ctx, s.ID)
	if err != nil {
		return entity.SlotConsistency{}, domain.AsStorageFailure(err)
	}
	c := entity.SlotConsistency{
		SlotID:          s.ID,
		RackID:          s.RackID,
		Label:           s.Label,
		SlotCapacity:    s.SlotCapacity,
		CurrentCapacity: s.CurrentCapacity,
		PlacedQuantity:  sum,
		Drift:           s.CurrentCapacity - sum,
	}
	if !c.Consistent() {
		e.log.Warn().Str("slot_id", s.ID).Int("current_capacity", s.CurrentCapacity).
			Int("placed_quantity", sum).Int("drift", c.Drift).Msg("ocupación del slot desviada")
	}
	return c, nil
}
