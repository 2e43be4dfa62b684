package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vgreen-backend/internal/domains/catalog/model"
	"vgreen-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) ProductRepository {
	return &postgresRepository{pool: pool}
}

const productColumns = `
	id, sku, name, category, subcategory, brand, price, is_active,
	created_at, updated_at`

func (r *postgresRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE sku = $1 AND is_active = true`, productColumns)

	var p model.Product
	err := r.pool.QueryRow(ctx, query, sku).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Subcategory, &p.Brand,
		&p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		logger.Error("[ProductRepo] FindBySKU failed", err)
		return nil, fmt.Errorf("find product by sku: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) FindBySKUs(ctx context.Context, skus []string) (map[string]*model.Product, error) {
	products := make(map[string]*model.Product, len(skus))
	if len(skus) == 0 {
		return products, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE sku = ANY($1) AND is_active = true`, productColumns)

	rows, err := r.pool.Query(ctx, query, skus)
	if err != nil {
		logger.Error("[ProductRepo] FindBySKUs query failed", err)
		return nil, fmt.Errorf("find products by skus: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Category, &p.Subcategory, &p.Brand,
			&p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.SKU] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}
