package postgres

import (
	"context"
	"fmt"
)

// schema tablas del núcleo de capacidad. Los CHECK replican las invariantes del motor
// como última barrera: una escritura que las viole aborta la transacción completa.
const schema = `
CREATE TABLE IF NOT EXISTS rack_slots (
	id               TEXT PRIMARY KEY,
	rack_id          TEXT        NOT NULL,
	label            TEXT        NOT NULL,
	slot_capacity    INTEGER     NOT NULL CHECK (slot_capacity > 0),
	current_capacity INTEGER     NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT rack_slots_rack_label_key UNIQUE (rack_id, label),
	CONSTRAINT rack_slots_capacity_range CHECK (current_capacity >= 0 AND current_capacity <= slot_capacity)
);

CREATE TABLE IF NOT EXISTS rack_items (
	id              TEXT PRIMARY KEY,
	item_id         TEXT        NOT NULL,
	slot_id         TEXT        NOT NULL REFERENCES rack_slots(id),
	quantity        INTEGER     NOT NULL CHECK (quantity >= 0),
	date_stored     TIMESTAMPTZ NOT NULL,
	label_generated BOOLEAN     NOT NULL DEFAULT false,
	material_code   TEXT        NOT NULL DEFAULT '',
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS rack_items_item_slot_idx ON rack_items (item_id, slot_id);
CREATE INDEX IF NOT EXISTS rack_items_slot_idx ON rack_items (slot_id);

CREATE TABLE IF NOT EXISTS stock_movements (
	id            TEXT PRIMARY KEY,
	item_id       TEXT        NOT NULL,
	from_rack_id  TEXT        NOT NULL,
	from_slot_id  TEXT        NOT NULL,
	to_rack_id    TEXT        NOT NULL,
	to_slot_id    TEXT        NOT NULL,
	quantity      INTEGER     NOT NULL CHECK (quantity > 0),
	movement_date TIMESTAMPTZ NOT NULL,
	moved_by      TEXT        NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS stock_movements_item_idx ON stock_movements (item_id, movement_date DESC);
`

// EnsureSchema crea las tablas si no existen (DB_AUTO_MIGRATE=true).
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
