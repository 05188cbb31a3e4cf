// Package memory implementa los puertos de inventario en memoria con semántica transaccional:
// cada Run trabaja sobre una copia del estado y solo la publica si fn termina sin error.
// Se usa en tests y con STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	slots      map[string]entity.Slot
	placements map[string]entity.Placement
	movements  map[string]entity.Movement
}

func newState() state {
	return state{
		slots:      map[string]entity.Slot{},
		placements: map[string]entity.Placement{},
		movements:  map[string]entity.Movement{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.placements {
		c.placements[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	return c
}

// FailHook permite inyectar una falla de almacenamiento en una operación concreta
// (nombre "<repo>.<método>", p. ej. "movements.Create"). Solo para tests.
type FailHook func(op string) error

// Store almacén en memoria. Las transacciones se serializan con un mutex, equivalente a
// bloquear todas las filas que tocan.
type Store struct {
	mu    sync.RWMutex
	state state
	fail  FailHook
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// SetFailHook instala (o quita con nil) el hook de fallas.
func (s *Store) SetFailHook(h FailHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = h
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(
	slotRepo repository.SlotRepository,
	placementRepo repository.PlacementRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txView{st: s.state.clone(), fail: s.fail}
	if err := fn(&slotRepo{v: tx}, &placementRepo{v: tx}, &movementRepo{v: tx}); err != nil {
		return err
	}
	s.state = tx.st
	return nil
}

// Slots repositorio de slots fuera de transacción (lecturas y alta administrativa).
func (s *Store) Slots() repository.SlotRepository { return &slotRepo{v: &autoView{store: s}} }

// Placements repositorio de ubicaciones fuera de transacción.
func (s *Store) Placements() repository.PlacementRepository {
	return &placementRepo{v: &autoView{store: s}}
}

// Movements libro de movimientos fuera de transacción.
func (s *Store) Movements() repository.MovementRepository {
	return &movementRepo{v: &autoView{store: s}}
}

// view acceso al estado: dentro de una tx (txView) o con auto-commit por operación (autoView).
type view interface {
	read(fn func(st *state) error) error
	write(op string, fn func(st *state) error) error
}

type txView struct {
	st   state
	fail FailHook
}

func (t *txView) read(fn func(st *state) error) error { return fn(&t.st) }

func (t *txView) write(op string, fn func(st *state) error) error {
	if t.fail != nil {
		if err := t.fail(op); err != nil {
			return err
		}
	}
	return fn(&t.st)
}

type autoView struct {
	store *Store
}

func (a *autoView) read(fn func(st *state) error) error {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return fn(&a.store.state)
}

func (a *autoView) write(op string, fn func(st *state) error) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	if a.store.fail != nil {
		if err := a.store.fail(op); err != nil {
			return err
		}
	}
	return fn(&a.store.state)
}

// ──────────────────────────────────────────────────────────────────────────────
// Slots
// ──────────────────────────────────────────────────────────────────────────────

type slotRepo struct{ v view }

func (r *slotRepo) Create(_ context.Context, slot *entity.Slot) error {
	return r.v.write("slots.Create", func(st *state) error {
		for _, s := range st.slots {
			if s.RackID == slot.RackID && s.Label == slot.Label {
				return domain.ErrDuplicate
			}
		}
		st.slots[slot.ID] = *slot
		return nil
	})
}

func (r *slotRepo) GetByID(_ context.Context, id string) (*entity.Slot, error) {
	var out *entity.Slot
	err := r.v.read(func(st *state) error {
		if s, ok := st.slots[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *slotRepo) GetByRackAndLabel(_ context.Context, rackID, label string) (*entity.Slot, error) {
	var out *entity.Slot
	err := r.v.read(func(st *state) error {
		for _, s := range st.slots {
			if s.RackID == rackID && s.Label == label {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *slotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Slot, error) {
	return r.GetByID(ctx, id)
}

func (r *slotRepo) AdjustCurrentCapacity(_ context.Context, id string, delta int) (*entity.Slot, error) {
	var out *entity.Slot
	err := r.v.write("slots.AdjustCurrentCapacity", func(st *state) error {
		s, ok := st.slots[id]
		if !ok {
			return domain.ErrSlotNotFound
		}
		s.CurrentCapacity += delta
		st.slots[id] = s
		out = &s
		return nil
	})
	return out, err
}

func (r *slotRepo) ListByRack(_ context.Context, rackID string) ([]*entity.Slot, error) {
	var out []*entity.Slot
	err := r.v.read(func(st *state) error {
		for _, s := range st.slots {
			if s.RackID == rackID {
				s := s
				out = append(out, &s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, err
}

func (r *slotRepo) List(_ context.Context) ([]*entity.Slot, error) {
	var out []*entity.Slot
	err := r.v.read(func(st *state) error {
		for _, s := range st.slots {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RackID != out[j].RackID {
			return out[i].RackID < out[j].RackID
		}
		return out[i].Label < out[j].Label
	})
	return out, err
}

func (r *slotRepo) Delete(_ context.Context, id string) error {
	return r.v.write("slots.Delete", func(st *state) error {
		delete(st.slots, id)
		return nil
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Placements
// ──────────────────────────────────────────────────────────────────────────────

type placementRepo struct{ v view }

func (r *placementRepo) Create(_ context.Context, p *entity.Placement) error {
	return r.v.write("placements.Create", func(st *state) error {
		st.placements[p.ID] = *p
		return nil
	})
}

func (r *placementRepo) GetByID(_ context.Context, id string) (*entity.Placement, error) {
	var out *entity.Placement
	err := r.v.read(func(st *state) error {
		if p, ok := st.placements[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *placementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Placement, error) {
	return r.GetByID(ctx, id)
}

func (r *placementRepo) FindByItemAndSlot(_ context.Context, itemID, slotID string) (*entity.Placement, error) {
	var out *entity.Placement
	err := r.v.read(func(st *state) error {
		for _, p := range st.placements {
			if p.ItemID != itemID || p.SlotID != slotID {
				continue
			}
			if out == nil || placedBefore(p, *out) {
				p := p
				out = &p
			}
		}
		return nil
	})
	return out, err
}

// placedBefore orden de elección entre ubicaciones del mismo ítem y slot:
// primero las que tienen cantidad, luego la más antigua y por último el ID.
func placedBefore(a, b entity.Placement) bool {
	if a.IsEmpty() != b.IsEmpty() {
		return !a.IsEmpty()
	}
	if !a.DateStored.Equal(b.DateStored) {
		return a.DateStored.Before(b.DateStored)
	}
	return a.ID < b.ID
}

func (r *placementRepo) Update(_ context.Context, p *entity.Placement) error {
	return r.v.write("placements.Update", func(st *state) error {
		if _, ok := st.placements[p.ID]; !ok {
			return domain.ErrPlacementNotFound
		}
		st.placements[p.ID] = *p
		return nil
	})
}

func (r *placementRepo) Delete(_ context.Context, id string) error {
	return r.v.write("placements.Delete", func(st *state) error {
		delete(st.placements, id)
		return nil
	})
}

func (r *placementRepo) ListBySlot(_ context.Context, slotID string) ([]*entity.Placement, error) {
	return r.filter(func(p entity.Placement) bool { return p.SlotID == slotID })
}

func (r *placementRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Placement, error) {
	return r.filter(func(p entity.Placement) bool { return p.ItemID == itemID })
}

func (r *placementRepo) SumQuantityBySlot(ctx context.Context, slotID string) (int, error) {
	list, err := r.ListBySlot(ctx, slotID)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, p := range list {
		sum += p.Quantity
	}
	return sum, nil
}

func (r *placementRepo) CountBySlot(ctx context.Context, slotID string) (int, error) {
	list, err := r.ListBySlot(ctx, slotID)
	return len(list), err
}

func (r *placementRepo) filter(keep func(entity.Placement) bool) ([]*entity.Placement, error) {
	var out []*entity.Placement
	err := r.v.read(func(st *state) error {
		for _, p := range st.placements {
			if keep(p) {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateStored.Equal(out[j].DateStored) {
			return out[i].DateStored.Before(out[j].DateStored)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Movements
// ──────────────────────────────────────────────────────────────────────────────

type movementRepo struct{ v view }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write("movements.Create", func(st *state) error {
		st.movements[m.ID] = *m
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.v.read(func(st *state) error {
		if m, ok := st.movements[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.SlotID != "" && m.FromSlotID != f.SlotID && m.ToSlotID != f.SlotID {
				continue
			}
			if f.From != nil && m.MovementDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.MovementDate.After(*f.To) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MovementDate.Equal(out[j].MovementDate) {
			return out[i].MovementDate.After(out[j].MovementDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Offset >= len(out) {
		return []*entity.Movement{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *movementRepo) Update(_ context.Context, m *entity.Movement) error {
	return r.v.write("movements.Update", func(st *state) error {
		if _, ok := st.movements[m.ID]; !ok {
			return domain.ErrMovementNotFound
		}
		st.movements[m.ID] = *m
		return nil
	})
}
