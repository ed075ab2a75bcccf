package cart

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type Repository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]PricedProduct, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) (map[string]PricedProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug, price, old_price, image, weight, stock_quantity, is_active
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[string]PricedProduct, len(ids))
	for rows.Next() {
		var p PricedProduct
		err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Price, &p.OldPrice,
			&p.Image, &p.Weight, &p.StockQuantity, &p.IsActive,
		)
		if err != nil {
			return nil, err
		}
		products[p.ID] = p
	}

	return products, rows.Err()
}
