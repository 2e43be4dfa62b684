// Package engine chứa phần lõi của promotion engine: target matching,
// resolution và discount math. Toàn bộ là pure functions trên data được
// truyền vào tường minh - không hidden state, không ambient cache - để
// server và mọi consumer khác dùng chung một implementation duy nhất.
package engine

import (
	"vgreen-backend/internal/domains/promotion/model"
)

// Subject là hình chiếu của một sản phẩm mà matcher cần.
// Các field là string đã lưu trong catalog, có thể rỗng.
type Subject struct {
	ProductID   string // internal id, chấp nhận như alias của SKU cho Product target
	SKU         string
	Category    string
	Subcategory string
	Brand       string
}

// Matches quyết định một sản phẩm có thuộc target spec của promotion không.
//
// Matching là set membership trên target_ref, exact string equality,
// case-sensitive đúng như giá trị đã lưu - không normalize, không partial
// match. Đổi semantics ở đây sẽ âm thầm thay đổi sản phẩm nào được giảm giá.
//
// Product target chấp nhận cả SKU lẫn internal product id làm key.
// target_type không nhận dạng được => false (fail closed).
func Matches(s Subject, t *model.PromotionTarget) bool {
	if t == nil || len(t.TargetRef) == 0 {
		return false
	}

	switch t.TargetType {
	case model.TargetTypeCategory:
		return contains(t.TargetRef, s.Category)
	case model.TargetTypeSubcategory:
		return contains(t.TargetRef, s.Subcategory)
	case model.TargetTypeBrand:
		return contains(t.TargetRef, s.Brand)
	case model.TargetTypeProduct:
		return contains(t.TargetRef, s.SKU) || contains(t.TargetRef, s.ProductID)
	default:
		return false
	}
}

func contains(refs []string, value string) bool {
	if value == "" {
		return false
	}
	for _, ref := range refs {
		if ref == value {
			return true
		}
	}
	return false
}
