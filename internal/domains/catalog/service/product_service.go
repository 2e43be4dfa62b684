package service

import (
	"context"
	"fmt"
	"time"

	"vgreen-backend/internal/domains/catalog/model"
	"vgreen-backend/internal/domains/catalog/repository"
	"vgreen-backend/pkg/cache"
)

// ProductService cấp product lookup có cache cho promotion engine.
// Implement engine.ProductSource.
type ProductService interface {
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindBySKUs(ctx context.Context, skus []string) (map[string]*model.Product, error)
}

type productService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewProductService(repo repository.ProductRepository, c cache.Cache, cacheTTL time.Duration) ProductService {
	return &productService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func productCacheKey(sku string) string {
	return fmt.Sprintf("catalog:product:%s", sku)
}

// FindBySKU - cache-aside với TTL ngắn. Cache lỗi thì bỏ qua
// và đọc thẳng DB, không làm fail request.
func (s *productService) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var cached model.Product
	if hit, err := s.cache.Get(ctx, productCacheKey(sku), &cached); err == nil && hit {
		return &cached, nil
	}

	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, productCacheKey(sku), product, s.cacheTTL)
	return product, nil
}

func (s *productService) FindBySKUs(ctx context.Context, skus []string) (map[string]*model.Product, error) {
	products := make(map[string]*model.Product, len(skus))
	var missing []string

	for _, sku := range skus {
		var cached model.Product
		if hit, err := s.cache.Get(ctx, productCacheKey(sku), &cached); err == nil && hit {
			products[sku] = &cached
			continue
		}
		missing = append(missing, sku)
	}

	if len(missing) > 0 {
		fetched, err := s.repo.FindBySKUs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for sku, p := range fetched {
			products[sku] = p
			_ = s.cache.Set(ctx, productCacheKey(sku), p, s.cacheTTL)
		}
	}

	return products, nil
}
