package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionUsage ghi lại lịch sử redemption, append-only.
// Entry được tạo khi order hoàn tất và không bao giờ bị mutate.
type PromotionUsage struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	PromotionID    string          `db:"promotion_id" json:"promotion_id"`
	OrderID        string          `db:"order_id" json:"order_id"`
	UserID         *uuid.UUID      `db:"user_id" json:"user_id,omitempty"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	UsedAt         time.Time       `db:"used_at" json:"used_at"`
}

// UsageStats - Thống kê sử dụng promotion (Admin)
type UsageStats struct {
	TotalUses          int             `json:"total_uses"`
	TotalDiscountGiven decimal.Decimal `json:"total_discount_given"`
	UniqueUsers        int             `json:"unique_users"`
}
