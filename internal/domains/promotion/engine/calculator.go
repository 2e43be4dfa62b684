package engine

import (
	"github.com/shopspring/decimal"

	"vgreen-backend/internal/domains/promotion/model"
)

var oneHundred = decimal.NewFromInt(100)

// DiscountAmount tính số tiền giảm cho một base price.
//
// Business Logic:
// 1. percent: discount = basePrice × discount_value / 100,
//    cap tại max_discount_value nếu có (nil hoặc <= 0 = unlimited)
// 2. fixed: discount = discount_value, không vượt quá basePrice
//    (giá sau giảm không bao giờ âm)
// 3. buy1get1: không đổi đơn giá, discount = 0
//    (dòng gifted là chuyện của cart layer, xem ExpandLines)
// 4. discount_type lạ: discount = 0 (fail-safe)
//
// Không làm tròn ở đây - calculator có thể được gọi nhiều lần để so sánh,
// làm tròn là việc của tầng hiển thị.
func DiscountAmount(promo *model.Promotion, basePrice decimal.Decimal) decimal.Decimal {
	switch promo.DiscountType {
	case model.DiscountTypePercent:
		discount := basePrice.Mul(promo.DiscountValue).Div(oneHundred)
		if promo.HasDiscountCap() && discount.GreaterThan(*promo.MaxDiscountValue) {
			discount = *promo.MaxDiscountValue
		}
		return discount

	case model.DiscountTypeFixed:
		discount := promo.DiscountValue
		if discount.GreaterThan(basePrice) {
			discount = basePrice
		}
		return discount

	default:
		// buy1get1 và mọi type không nhận dạng được
		return decimal.Zero
	}
}

// DiscountedPrice trả về giá sau giảm, cùng đơn vị tiền với input
func DiscountedPrice(promo *model.Promotion, basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Sub(DiscountAmount(promo, basePrice))
}
