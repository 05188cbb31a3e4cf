package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/memory"
)

func seedSlot(t *testing.T, s *memory.Store, id, rack, label string, capacity int) {
	t.Helper()
	require.NoError(t, s.Slots().Create(context.Background(), &entity.Slot{
		ID: id, RackID: rack, Label: label, SlotCapacity: capacity,
	}))
}

func TestStore_RunConfirmaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedSlot(t, s, "s1", "R1", "A1", 10)

	err := s.Run(ctx, func(slots repository.SlotRepository, placements repository.PlacementRepository, _ repository.MovementRepository) error {
		if _, err := slots.AdjustCurrentCapacity(ctx, "s1", 4); err != nil {
			return err
		}
		return placements.Create(ctx, &entity.Placement{ID: "p1", ItemID: "I1", SlotID: "s1", Quantity: 4})
	})
	require.NoError(t, err)

	slot, err := s.Slots().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, slot.CurrentCapacity)
	sum, err := s.Placements().SumQuantityBySlot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, sum)
}

func TestStore_RunConErrorDescartaTodo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedSlot(t, s, "s1", "R1", "A1", 10)
	boom := errors.New("boom")

	err := s.Run(ctx, func(slots repository.SlotRepository, placements repository.PlacementRepository, _ repository.MovementRepository) error {
		if _, err := slots.AdjustCurrentCapacity(ctx, "s1", 4); err != nil {
			return err
		}
		if err := placements.Create(ctx, &entity.Placement{ID: "p1", ItemID: "I1", SlotID: "s1", Quantity: 4}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	slot, _ := s.Slots().GetByID(ctx, "s1")
	assert.Equal(t, 0, slot.CurrentCapacity, "la ocupación no debe cambiar")
	p, _ := s.Placements().GetByID(ctx, "p1")
	assert.Nil(t, p, "la ubicación no debe persistir")
}

func TestStore_FailHookAbortaTransaccion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedSlot(t, s, "s1", "R1", "A1", 10)
	s.SetFailHook(func(op string) error {
		if op == "movements.Create" {
			return errors.New("disco lleno")
		}
		return nil
	})

	err := s.Run(ctx, func(slots repository.SlotRepository, _ repository.PlacementRepository, movs repository.MovementRepository) error {
		if _, err := slots.AdjustCurrentCapacity(ctx, "s1", 3); err != nil {
			return err
		}
		return movs.Create(ctx, &entity.Movement{ID: "m1"})
	})
	require.Error(t, err)

	slot, _ := s.Slots().GetByID(ctx, "s1")
	assert.Equal(t, 0, slot.CurrentCapacity)
}

func TestStore_SlotDuplicadoEnRack(t *testing.T) {
	s := memory.NewStore()
	seedSlot(t, s, "s1", "R1", "A1", 10)

	err := s.Slots().Create(context.Background(), &entity.Slot{ID: "s2", RackID: "R1", Label: "A1", SlotCapacity: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// misma etiqueta en otro rack es válida
	err = s.Slots().Create(context.Background(), &entity.Slot{ID: "s3", RackID: "R2", Label: "A1", SlotCapacity: 5})
	assert.NoError(t, err)
}

func TestStore_FindByItemAndSlotDevuelveLaMasAntigua(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Placements().Create(ctx, &entity.Placement{ID: "b", ItemID: "I1", SlotID: "s1", Quantity: 1, DateStored: t0.Add(time.Hour)}))
	require.NoError(t, s.Placements().Create(ctx, &entity.Placement{ID: "a", ItemID: "I1", SlotID: "s1", Quantity: 2, DateStored: t0}))

	p, err := s.Placements().FindByItemAndSlot(ctx, "I1", "s1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "a", p.ID)

	none, err := s.Placements().FindByItemAndSlot(ctx, "I2", "s1")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStore_FindByItemAndSlotPrefiereUbicacionConCantidad(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Placements().Create(ctx, &entity.Placement{ID: "vacia", ItemID: "I1", SlotID: "s1", Quantity: 0, DateStored: t0}))
	require.NoError(t, s.Placements().Create(ctx, &entity.Placement{ID: "llena", ItemID: "I1", SlotID: "s1", Quantity: 10, DateStored: t0.Add(time.Hour)}))

	p, err := s.Placements().FindByItemAndSlot(ctx, "I1", "s1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "llena", p.ID)

	require.NoError(t, s.Placements().Delete(ctx, "llena"))
	p, err = s.Placements().FindByItemAndSlot(ctx, "I1", "s1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "vacia", p.ID, "sin otra opción devuelve la vacía")
}

func TestStore_ListMovementsFiltraYPagina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, s.Movements().Create(ctx, &entity.Movement{
			ID: id, ItemID: "I1", FromSlotID: "s1", ToSlotID: "s2", Quantity: 1,
			MovementDate: t0.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, s.Movements().Create(ctx, &entity.Movement{ID: "m4", ItemID: "I2", FromSlotID: "s3", ToSlotID: "s4", MovementDate: t0}))

	list, err := s.Movements().List(ctx, entity.MovementFilter{ItemID: "I1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m3", list[0].ID, "más reciente primero")
	assert.Equal(t, "m2", list[1].ID)

	bySlot, err := s.Movements().List(ctx, entity.MovementFilter{SlotID: "s4"})
	require.NoError(t, err)
	require.Len(t, bySlot, 1)
	assert.Equal(t, "m4", bySlot[0].ID)

	empty, err := s.Movements().List(ctx, entity.MovementFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_RunRespetaContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := memory.NewStore()
	called := false
	err := s.Run(ctx, func(repository.SlotRepository, repository.PlacementRepository, repository.MovementRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
