package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CartItem là một dòng giỏ hàng client gửi lên để tính giá
type CartItem struct {
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (i CartItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.SKU, validation.Required.Error("SKU sản phẩm là bắt buộc")),
		validation.Field(&i.Quantity, validation.Required.Error("Số lượng là bắt buộc"),
			validation.Min(1).Error("Số lượng phải lớn hơn 0")),
	)
}

// PriceCartRequest là payload của POST /cart/price.
// Pricing hoàn toàn stateless - server không giữ giỏ hàng.
type PriceCartRequest struct {
	Items []CartItem `json:"items"`
}

func (r PriceCartRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required.Error("Giỏ hàng không được để trống")),
	)
}

// PricedLine là một dòng sau khi áp khuyến mãi.
// Dòng gifted (buy1get1) có IsGift=true và UnitPrice đúng bằng 0.
type PricedLine struct {
	SKU                 string          `json:"sku"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	DiscountedUnitPrice decimal.Decimal `json:"discounted_unit_price"`
	LineTotal           decimal.Decimal `json:"line_total"`
	IsGift              bool            `json:"is_gift"`
	AppliedPromotions   []string        `json:"applied_promotions,omitempty"`
}

// AppliedPromotion tóm tắt một promotion đã áp vào giỏ
type AppliedPromotion struct {
	PromotionID  string          `json:"promotion_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	DiscountType string          `json:"discount_type"`
	MatchedSKUs  []string        `json:"matched_products"`
	TotalSaved   decimal.Decimal `json:"total_saved"`
}

// PricedCart là kết quả pricing đầy đủ
type PricedCart struct {
	Lines      []PricedLine       `json:"lines"`
	Promotions []AppliedPromotion `json:"applied_promotions"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Discount   decimal.Decimal    `json:"discount"`
	Total      decimal.Decimal    `json:"total"`
}
