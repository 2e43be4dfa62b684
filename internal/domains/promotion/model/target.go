package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TargetType xác định promotion áp dụng theo chiều nào của sản phẩm
type TargetType string

const (
	TargetTypeCategory    TargetType = "Category"
	TargetTypeSubcategory TargetType = "Subcategory"
	TargetTypeBrand       TargetType = "Brand"
	TargetTypeProduct     TargetType = "Product"
)

func (tt TargetType) IsValid() bool {
	switch tt {
	case TargetTypeCategory, TargetTypeSubcategory, TargetTypeBrand, TargetTypeProduct:
		return true
	}
	return false
}

// PromotionTarget binds a promotion to the products it applies to.
//
// Mỗi promotion có 0 hoặc 1 target record. Không có target = wildcard,
// promotion áp dụng cho mọi sản phẩm. target_ref chứa tên category /
// subcategory / brand hoặc SKU, match theo set membership, exact string,
// case-sensitive đúng như giá trị đã lưu.
type PromotionTarget struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	PromotionID string         `json:"promotion_id" db:"promotion_id"` // FK tới Promotion.promotion_id (external code, không phải row id)
	TargetType  TargetType     `json:"target_type" db:"target_type"`
	TargetRef   pq.StringArray `json:"target_ref" db:"target_ref"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
