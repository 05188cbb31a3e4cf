package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rack-inventario-api/internal/domain"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

var _ repository.SlotRepository = (*SlotRepo)(nil)

const slotColumns = `id, rack_id, label, slot_capacity, current_capacity, created_at, updated_at`

// SlotRepo implementación de SlotRepository sobre PostgreSQL (usable con pool o tx).
type SlotRepo struct {
	q Querier
}

// NewSlotRepository construye el adaptador de slots. Pasar pool o tx (Querier).
func NewSlotRepository(q Querier) *SlotRepo {
	return &SlotRepo{q: q}
}

// Create persiste un slot nuevo.
func (r *SlotRepo) Create(ctx context.Context, s *entity.Slot) error {
	query := `
		INSERT INTO rack_slots (` + slotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.RackID, s.Label, s.SlotCapacity, s.CurrentCapacity, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

// GetByID obtiene un slot por ID.
func (r *SlotRepo) GetByID(ctx context.Context, id string) (*entity.Slot, error) {
	return r.getOne(ctx, "get slot", `SELECT `+slotColumns+` FROM rack_slots WHERE id = $1`, id)
}

// GetByRackAndLabel obtiene un slot por rack y etiqueta.
func (r *SlotRepo) GetByRackAndLabel(ctx context.Context, rackID, label string) (*entity.Slot, error) {
	return r.getOne(ctx, "get slot by label",
		`SELECT `+slotColumns+` FROM rack_slots WHERE rack_id = $1 AND label = $2`, rackID, label)
}

// GetForUpdate obtiene el slot y bloquea la fila para update (SELECT FOR UPDATE).
func (r *SlotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Slot, error) {
	return r.getOne(ctx, "get slot for update",
		`SELECT `+slotColumns+` FROM rack_slots WHERE id = $1 FOR UPDATE`, id)
}

// AdjustCurrentCapacity aplica current_capacity += delta en la base y devuelve la fila resultante.
func (r *SlotRepo) AdjustCurrentCapacity(ctx context.Context, id string, delta int) (*entity.Slot, error) {
	query := `
		UPDATE rack_slots SET current_capacity = current_capacity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + slotColumns
	var s entity.Slot
	err := r.q.QueryRow(ctx, query, id, delta).Scan(
		&s.ID, &s.RackID, &s.Label, &s.SlotCapacity, &s.CurrentCapacity, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		if isCheckViolation(err) {
			return nil, fmt.Errorf("adjust slot capacity: invariante de ocupación violada: %w", err)
		}
		return nil, fmt.Errorf("adjust slot capacity: %w", err)
	}
	return &s, nil
}

// ListByRack lista los slots de un rack ordenados por etiqueta.
func (r *SlotRepo) ListByRack(ctx context.Context, rackID string) ([]*entity.Slot, error) {
	return r.list(ctx, "list slots by rack",
		`SELECT `+slotColumns+` FROM rack_slots WHERE rack_id = $1 ORDER BY label`, rackID)
}

// List lista todos los slots.
func (r *SlotRepo) List(ctx context.Context) ([]*entity.Slot, error) {
	return r.list(ctx, "list slots", `SELECT `+slotColumns+` FROM rack_slots ORDER BY rack_id, label`)
}

// Delete elimina un slot por ID.
func (r *SlotRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rack_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (r *SlotRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Slot, error) {
	var s entity.Slot
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.RackID, &s.Label, &s.SlotCapacity, &s.CurrentCapacity, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

func (r *SlotRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Slot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Slot
	for rows.Next() {
		var s entity.Slot
		if err := rows.Scan(&s.ID, &s.RackID, &s.Label, &s.SlotCapacity, &s.CurrentCapacity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
