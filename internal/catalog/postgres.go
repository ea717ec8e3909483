package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Postgres reads the catalog from the products table:
//
//	products(id text primary key, name text, price numeric(12,2), description text)
type Postgres struct{ DB *pgxpool.Pool }

func (r *Postgres) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, price::text, COALESCE(description, '')
                                FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Description); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("product %s price %q: %w", p.ID, price, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SeedIfEmpty fills an empty products table, typically from Default().
func (r *Postgres) SeedIfEmpty(ctx context.Context, ps []Product) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	b := &pgx.Batch{}
	for _, p := range ps {
		b.Queue(`INSERT INTO products (id, name, price, description) VALUES ($1, $2, $3::numeric, $4)
                 ON CONFLICT (id) DO NOTHING`, p.ID, p.Name, p.Price.StringFixed(2), p.Description)
	}
	if err := r.DB.SendBatch(ctx, b).Close(); err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	return len(ps), nil
}
