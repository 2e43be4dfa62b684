package repository

import (
	"context"

	"vgreen-backend/internal/domains/catalog/model"
)

// ProductRepository là read-side của product catalog.
// Promotion engine chỉ cần lookup, không cần full CRUD.
type ProductRepository interface {
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindBySKUs(ctx context.Context, skus []string) (map[string]*model.Product, error)
}
