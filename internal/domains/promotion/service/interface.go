package service

import (
	"context"

	"vgreen-backend/internal/domains/promotion/engine"
	"vgreen-backend/internal/domains/promotion/model"
)

// PromotionService là business layer của promotion domain
type PromotionService interface {
	// ===== Storefront =====

	// ListActive trả về promotion đang live kèm target info,
	// sắp theo end_date tăng dần, đi qua TTL cache
	ListActive(ctx context.Context) ([]*ActivePromotion, error)

	// GetByCode lookup một promotion theo coupon code (case-insensitive)
	GetByCode(ctx context.Context, code string) (*model.Promotion, error)

	// ValidateCode chạy validation pipeline đầy đủ cho một mã + giỏ hàng.
	// Mã không hợp lệ trả ValidationResult{IsValid: false}, KHÔNG trả error;
	// error chỉ xảy ra khi hạ tầng có sự cố.
	ValidateCode(ctx context.Context, req *model.ValidateCodeRequest) (*model.ValidationResult, error)

	// ResolveForCart trả về mọi promotion áp dụng được cho giỏ hàng.
	// Cart service dùng hàm này khi pricing.
	ResolveForCart(ctx context.Context, lines []engine.CartLine) ([]*engine.Applicable, error)

	// ===== Order completion (internal) =====

	// RecordUsage trừ một lượt usage_limit và ghi usage record, atomic
	RecordUsage(ctx context.Context, req *model.RecordUsageRequest) error

	// ===== Admin =====

	Create(ctx context.Context, req *model.CreatePromotionRequest) (*model.Promotion, error)
	Get(ctx context.Context, promotionID string) (*model.Promotion, error)
	List(ctx context.Context, query *model.ListPromotionsQuery) ([]*model.Promotion, int64, error)
	Update(ctx context.Context, promotionID string, req *model.UpdatePromotionRequest) (*model.Promotion, error)
	UpdateStatus(ctx context.Context, promotionID string, status model.PromotionStatus) (*model.Promotion, error)
	Delete(ctx context.Context, promotionID string) error

	GetTarget(ctx context.Context, promotionID string) (*model.PromotionTarget, error)
	SetTarget(ctx context.Context, promotionID string, req *model.SetTargetRequest) (*model.PromotionTarget, error)
	RemoveTarget(ctx context.Context, promotionID string) error

	UsageHistory(ctx context.Context, promotionID string, page, limit int) ([]*model.PromotionUsage, int64, *model.UsageStats, error)
}

// ActivePromotion là một promotion live kèm targeting info cho storefront
type ActivePromotion struct {
	Promotion *model.Promotion       `json:"promotion"`
	Target    *model.PromotionTarget `json:"target,omitempty"`
}
