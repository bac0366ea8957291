package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

// Postgres reads the menu from the menu_items table.
type Postgres struct{ DB *pgxpool.Pool }

func (p *Postgres) Items(ctx context.Context) ([]orders.MenuItem, error) {
	rows, err := p.DB.Query(ctx, `SELECT id, name, price_cents FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.MenuItem
	for rows.Next() {
		var it orders.MenuItem
		var cents int64
		if err := rows.Scan(&it.ID, &it.Name, &cents); err != nil {
			return nil, err
		}
		it.Price = orders.Price(cents)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (p *Postgres) Lookup(ctx context.Context, id uuid.UUID) (orders.MenuItem, error) {
	it := orders.MenuItem{ID: id}
	var cents int64
	err := p.DB.QueryRow(ctx, `SELECT name, price_cents FROM menu_items WHERE id=$1`, id).Scan(&it.Name, &cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.MenuItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if err != nil {
		return orders.MenuItem{}, err
	}
	it.Price = orders.Price(cents)
	return it, nil
}

// Migrate creates the menu_items table when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.DB.Exec(ctx, `CREATE TABLE IF NOT EXISTS menu_items (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0)
	)`)
	return err
}

// Seed inserts items that are not there yet.
func (p *Postgres) Seed(ctx context.Context, items []orders.MenuItem) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`INSERT INTO menu_items(id, name, price_cents) VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING`,
			it.ID, it.Name, int64(it.Price))
	}
	return p.DB.SendBatch(ctx, batch).Close()
}
