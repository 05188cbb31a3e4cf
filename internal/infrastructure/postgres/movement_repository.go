package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, item_id, from_rack_id, from_slot_id, to_rack_id, to_slot_id, quantity, movement_date, moved_by, created_at`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.FromRackID, m.FromSlotID, m.ToRackID, m.ToSlotID,
		m.Quantity, m.MovementDate, m.MovedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.Movement
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ItemID, &m.FromRackID, &m.FromSlotID, &m.ToRackID, &m.ToSlotID,
		&m.Quantity, &m.MovementDate, &m.MovedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// List lista movimientos aplicando los filtros opcionales, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if f.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, f.ItemID)
		pos++
	}
	if f.SlotID != "" {
		query += fmt.Sprintf(" AND (from_slot_id = $%d OR to_slot_id = $%d)", pos, pos)
		args = append(args, f.SlotID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.FromRackID, &m.FromSlotID, &m.ToRackID, &m.ToSlotID,
			&m.Quantity, &m.MovementDate, &m.MovedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update sobrescribe los campos descriptivos del movimiento.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE stock_movements SET from_rack_id = $2, to_rack_id = $3, movement_date = $4, moved_by = $5
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, m.ID, m.FromRackID, m.ToRackID, m.MovementDate, m.MovedBy); err != nil {
		return fmt.Errorf("update stock movement: %w", err)
	}
	return nil
}
