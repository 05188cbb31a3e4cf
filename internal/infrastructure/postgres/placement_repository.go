package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
	"github.com/jhoicas/rack-inventario-api/internal/domain/repository"
)

var _ repository.PlacementRepository = (*PlacementRepo)(nil)

const placementColumns = `id, item_id, slot_id, quantity, date_stored, label_generated, material_code, updated_at`

// PlacementRepo implementación de PlacementRepository sobre la tabla rack_items.
type PlacementRepo struct {
	q Querier
}

// NewPlacementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlacementRepository(q Querier) *PlacementRepo {
	return &PlacementRepo{q: q}
}

// Create persiste una ubicación.
func (r *PlacementRepo) Create(ctx context.Context, p *entity.Placement) error {
	query := `
		INSERT INTO rack_items (` + placementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ItemID, p.SlotID, p.Quantity, p.DateStored, p.LabelGenerated, p.MaterialCode, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rack item: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *PlacementRepo) GetByID(ctx context.Context, id string) (*entity.Placement, error) {
	return r.getOne(ctx, "get rack item", `SELECT `+placementColumns+` FROM rack_items WHERE id = $1`, id)
}

// GetForUpdate obtiene la ubicación y bloquea la fila (SELECT FOR UPDATE).
func (r *PlacementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Placement, error) {
	return r.getOne(ctx, "get rack item for update",
		`SELECT `+placementColumns+` FROM rack_items WHERE id = $1 FOR UPDATE`, id)
}

// FindByItemAndSlot busca la ubicación de un ítem en un slot y bloquea la fila.
// Si hubiera varias (no hay constraint único) se toma la más antigua con cantidad;
// las vacías solo se devuelven si no queda otra.
func (r *PlacementRepo) FindByItemAndSlot(ctx context.Context, itemID, slotID string) (*entity.Placement, error) {
	return r.getOne(ctx, "find rack item",
		`SELECT `+placementColumns+` FROM rack_items
		WHERE item_id = $1 AND slot_id = $2
		ORDER BY (quantity = 0), date_stored, id LIMIT 1 FOR UPDATE`, itemID, slotID)
}

// Update sobrescribe una ubicación existente.
func (r *PlacementRepo) Update(ctx context.Context, p *entity.Placement) error {
	query := `
		UPDATE rack_items SET item_id = $2, slot_id = $3, quantity = $4, label_generated = $5,
			material_code = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.ItemID, p.SlotID, p.Quantity, p.LabelGenerated, p.MaterialCode, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update rack item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update rack item %s: %w", p.ID, pgx.ErrNoRows)
	}
	return nil
}

// Delete elimina una ubicación por ID.
func (r *PlacementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rack_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete rack item: %w", err)
	}
	return nil
}

// ListBySlot lista las ubicaciones de un slot.
func (r *PlacementRepo) ListBySlot(ctx context.Context, slotID string) ([]*entity.Placement, error) {
	return r.list(ctx, "list rack items by slot",
		`SELECT `+placementColumns+` FROM rack_items WHERE slot_id = $1 ORDER BY date_stored`, slotID)
}

// ListByItem lista las ubicaciones de un ítem.
func (r *PlacementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Placement, error) {
	return r.list(ctx, "list rack items by item",
		`SELECT `+placementColumns+` FROM rack_items WHERE item_id = $1 ORDER BY date_stored`, itemID)
}

// SumQuantityBySlot suma las cantidades ubicadas en un slot.
func (r *PlacementRepo) SumQuantityBySlot(ctx context.Context, slotID string) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM rack_items WHERE slot_id = $1`, slotID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum rack items: %w", err)
	}
	return sum, nil
}

// CountBySlot cuenta las ubicaciones (incluidas las vacías) de un slot.
func (r *PlacementRepo) CountBySlot(ctx context.Context, slotID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM rack_items WHERE slot_id = $1`, slotID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rack items: %w", err)
	}
	return n, nil
}

func (r *PlacementRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Placement, error) {
	var p entity.Placement
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.ItemID, &p.SlotID, &p.Quantity, &p.DateStored, &p.LabelGenerated, &p.MaterialCode, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *PlacementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Placement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Placement
	for rows.Next() {
		var p entity.Placement
		if err := rows.Scan(&p.ID, &p.ItemID, &p.SlotID, &p.Quantity, &p.DateStored,
			&p.LabelGenerated, &p.MaterialCode, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rack item: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
