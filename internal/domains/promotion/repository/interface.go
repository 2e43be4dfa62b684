package repository

import (
	"context"
	"time"

	"vgreen-backend/internal/domains/promotion/model"
)

// PromotionRepository định nghĩa data access cho promotion domain
type PromotionRepository interface {
	// FindByCode lookup theo coupon code, case-insensitive.
	// Đây là đường đi của user-facing flow nên chấp nhận sai hoa thường.
	FindByCode(ctx context.Context, code string) (*model.Promotion, error)

	// FindByPromotionID lookup theo external code (PROMOxxx), exact match
	FindByPromotionID(ctx context.Context, promotionID string) (*model.Promotion, error)

	// ListLive trả về mọi promotion đang live tại thời điểm now,
	// sắp theo end_date tăng dần
	ListLive(ctx context.Context, now time.Time) ([]*model.Promotion, error)

	// List cho admin, filter + phân trang
	List(ctx context.Context, query *model.ListPromotionsQuery) ([]*model.Promotion, int64, error)

	Create(ctx context.Context, promo *model.Promotion) error
	Update(ctx context.Context, promo *model.Promotion) error

	// Delete xóa promotion cùng target và usage history (cascade)
	Delete(ctx context.Context, promotionID string) error

	// FindTarget trả (nil, nil) khi promotion không có targeting rule (wildcard)
	FindTarget(ctx context.Context, promotionID string) (*model.PromotionTarget, error)

	// FindTargets batch lookup, key theo promotion_id
	FindTargets(ctx context.Context, promotionIDs []string) (map[string]*model.PromotionTarget, error)

	// SetTarget upsert targeting rule (mỗi promotion tối đa một rule)
	SetTarget(ctx context.Context, target *model.PromotionTarget) error

	DeleteTarget(ctx context.Context, promotionID string) error

	// ConsumeUsage trừ một lượt usage_limit và ghi usage record trong
	// cùng một transaction. Trả ErrUsageExhausted khi usage_limit đã về 0 -
	// decrement có điều kiện nên hai request đồng thời không bao giờ
	// đẩy limit xuống âm.
	ConsumeUsage(ctx context.Context, usage *model.PromotionUsage) error

	ListUsage(ctx context.Context, promotionID string, page, limit int) ([]*model.PromotionUsage, int64, error)
	UsageStats(ctx context.Context, promotionID string) (*model.UsageStats, error)

	// ReconcileStatuses đồng bộ cột status với date window thực tế.
	// Worker gọi định kỳ. Trả về số row đã đổi.
	ReconcileStatuses(ctx context.Context, now time.Time) (int64, error)
}
