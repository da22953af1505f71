package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// ProductRepository implements port.ProductRepository using pgxpool. The
// product table is written by sync imports and by systems outside this
// service; the bundle engine otherwise only reads it.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a new repository instance.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetProduct returns a product by id, or port.ErrNotFound.
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, base_price, is_active
        FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.BasePrice, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProducts resolves a batch of ids in one round trip. Ids that do not
// resolve are absent from the result map.
func (r *ProductRepository) GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, name, base_price, is_active
        FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var p domain.Product
		err := row.Scan(&p.ID, &p.Name, &p.BasePrice, &p.IsActive)
		return p, err
	})
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

// UpsertProduct inserts or updates a product during sync.
func (r *ProductRepository) UpsertProduct(ctx context.Context, p domain.Product) (created bool, err error) {
	err = r.pool.QueryRow(ctx, `INSERT INTO products (id, name, base_price, is_active)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            base_price = EXCLUDED.base_price,
            is_active = EXCLUDED.is_active
        RETURNING (xmax = 0)`,
		p.ID, p.Name, p.BasePrice, p.IsActive).Scan(&created)
	return created, err
}

// UpsertCategory inserts or updates a category during sync.
func (r *ProductRepository) UpsertCategory(ctx context.Context, c domain.Category) (created bool, err error) {
	err = r.pool.QueryRow(ctx, `INSERT INTO categories (id, name, display_order)
        VALUES ($1,$2,$3)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            display_order = EXCLUDED.display_order
        RETURNING (xmax = 0)`,
		c.ID, c.Name, c.DisplayOrder).Scan(&created)
	return created, err
}
