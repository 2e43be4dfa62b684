package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CartItemDTO là một dòng giỏ hàng do client gửi lên.
// Metadata (category/subcategory/brand) là optional - server sẽ
// tự re-fetch từ catalog khi thiếu.
type CartItemDTO struct {
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (d CartItemDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.SKU, validation.Required.Error("SKU sản phẩm là bắt buộc")),
		validation.Field(&d.Quantity, validation.Required.Error("Số lượng là bắt buộc"),
			validation.Min(1).Error("Số lượng phải lớn hơn 0")),
	)
}

// ValidateCodeRequest là payload của POST /promotions/validate
type ValidateCodeRequest struct {
	Code       string          `json:"code"`
	CartItems  []CartItemDTO   `json:"cart_items"`
	CartAmount decimal.Decimal `json:"cart_amount"`
}

func (r ValidateCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required.Error("Mã khuyến mãi là bắt buộc"),
			validation.Length(1, 50).Error("Mã khuyến mãi không hợp lệ")),
		validation.Field(&r.CartItems, validation.Required.Error("Giỏ hàng không được để trống")),
	)
}

// PromotionResult là phần promotion trong kết quả validate thành công
type PromotionResult struct {
	PromotionID      string           `json:"promotion_id"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	DiscountType     DiscountType     `json:"discount_type"`
	DiscountValue    decimal.Decimal  `json:"discount_value"`
	MaxDiscountValue *decimal.Decimal `json:"max_discount_value,omitempty"`
	MinOrderValue    decimal.Decimal  `json:"min_order_value"`
	EndDate          time.Time        `json:"end_date"`
	TargetType       TargetType       `json:"target_type,omitempty"`
	MatchedProducts  []string         `json:"matched_products"`
	DiscountAmount   decimal.Decimal  `json:"discount_amount"`
	FinalAmount      decimal.Decimal  `json:"final_amount"`
}

// ValidationResult là outcome của một lần kiểm tra mã.
// Mã không hợp lệ KHÔNG phải error - IsValid=false kèm message
// tiếng Việt cho user; error chỉ dành cho sự cố hạ tầng.
type ValidationResult struct {
	IsValid   bool             `json:"is_valid"`
	Promotion *PromotionResult `json:"promotion,omitempty"`
	Message   string           `json:"message"`
}

// CreatePromotionRequest là payload admin tạo promotion mới
type CreatePromotionRequest struct {
	PromotionID      string           `json:"promotion_id"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	Description      *string          `json:"description,omitempty"`
	DiscountType     DiscountType     `json:"discount_type"`
	DiscountValue    decimal.Decimal  `json:"discount_value"`
	MaxDiscountValue *decimal.Decimal `json:"max_discount_value,omitempty"`
	MinOrderValue    decimal.Decimal  `json:"min_order_value"`
	UsageLimit       int              `json:"usage_limit"`
	UserLimit        int              `json:"user_limit"`
	IsFirstOrderOnly bool             `json:"is_first_order_only"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	Type             PromotionType    `json:"type"`
}

func (r CreatePromotionRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.PromotionID, validation.Required.Error("Mã định danh khuyến mãi là bắt buộc"),
			validation.Length(3, 50).Error("Mã định danh phải từ 3-50 ký tự")),
		validation.Field(&r.Code, validation.Required.Error("Mã coupon là bắt buộc"),
			validation.Length(2, 50).Error("Mã coupon phải từ 2-50 ký tự")),
		validation.Field(&r.Name, validation.Required.Error("Tên khuyến mãi là bắt buộc"),
			validation.Length(2, 255).Error("Tên khuyến mãi phải từ 2-255 ký tự")),
		validation.Field(&r.DiscountType, validation.Required.Error("Loại giảm giá là bắt buộc"),
			validation.In(DiscountTypePercent, DiscountTypeFixed, DiscountTypeBuy1Get1).
				Error("Loại giảm giá phải là percent, fixed hoặc buy1get1")),
		validation.Field(&r.UsageLimit, validation.Min(0).Error("Số lượt sử dụng không được âm")),
		validation.Field(&r.StartDate, validation.Required.Error("Ngày bắt đầu là bắt buộc")),
		validation.Field(&r.EndDate, validation.Required.Error("Ngày kết thúc là bắt buộc")),
		validation.Field(&r.Type, validation.Required.Error("Phân loại khuyến mãi là bắt buộc"),
			validation.In(PromotionTypeAdmin, PromotionTypeUser).Error("Phân loại phải là Admin hoặc User")),
	)
	if err != nil {
		return err
	}

	// Cross-field checks ozzo không express được gọn
	if r.EndDate.Before(r.StartDate) {
		return validation.Errors{"end_date": validation.NewError("validation_date_range", "Ngày kết thúc phải sau ngày bắt đầu")}
	}
	if r.DiscountType == DiscountTypePercent {
		if r.DiscountValue.LessThanOrEqual(decimal.Zero) || r.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return validation.Errors{"discount_value": validation.NewError("validation_percent_range", "Phần trăm giảm giá phải trong khoảng 1-100")}
		}
	}
	if r.DiscountType == DiscountTypeFixed && r.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return validation.Errors{"discount_value": validation.NewError("validation_fixed_positive", "Số tiền giảm phải lớn hơn 0")}
	}
	return nil
}

// UpdatePromotionRequest là payload admin cập nhật promotion.
// Mọi field đều optional - chỉ field non-nil được apply.
type UpdatePromotionRequest struct {
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	DiscountType     *DiscountType    `json:"discount_type,omitempty"`
	DiscountValue    *decimal.Decimal `json:"discount_value,omitempty"`
	MaxDiscountValue *decimal.Decimal `json:"max_discount_value,omitempty"`
	MinOrderValue    *decimal.Decimal `json:"min_order_value,omitempty"`
	UsageLimit       *int             `json:"usage_limit,omitempty"`
	UserLimit        *int             `json:"user_limit,omitempty"`
	IsFirstOrderOnly *bool            `json:"is_first_order_only,omitempty"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	Status           *PromotionStatus `json:"status,omitempty"`
	Type             *PromotionType   `json:"type,omitempty"`
}

func (r UpdatePromotionRequest) Validate() error {
	if r.Name != nil {
		if err := validation.Validate(*r.Name,
			validation.Length(2, 255).Error("Tên khuyến mãi phải từ 2-255 ký tự")); err != nil {
			return validation.Errors{"name": err}
		}
	}
	if r.DiscountType != nil && !r.DiscountType.IsValid() {
		return validation.Errors{"discount_type": validation.NewError("validation_discount_type", "Loại giảm giá phải là percent, fixed hoặc buy1get1")}
	}
	if r.Status != nil {
		switch *r.Status {
		case StatusActive, StatusExpired, StatusInactive:
		default:
			return validation.Errors{"status": validation.NewError("validation_status", "Trạng thái không hợp lệ")}
		}
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return validation.Errors{"end_date": validation.NewError("validation_date_range", "Ngày kết thúc phải sau ngày bắt đầu")}
	}
	return nil
}

// SetTargetRequest thay thế toàn bộ targeting rule của một promotion
type SetTargetRequest struct {
	TargetType TargetType `json:"target_type"`
	TargetRef  []string   `json:"target_ref"`
}

func (r SetTargetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TargetType, validation.Required.Error("Loại target là bắt buộc"),
			validation.In(TargetTypeCategory, TargetTypeSubcategory, TargetTypeBrand, TargetTypeProduct).
				Error("Loại target phải là Category, Subcategory, Brand hoặc Product")),
		validation.Field(&r.TargetRef, validation.Required.Error("Danh sách target không được để trống")),
	)
}

// ListPromotionsQuery là query params cho admin listing
type ListPromotionsQuery struct {
	Status       string `form:"status"`
	Type         string `form:"type"`
	DiscountType string `form:"discount_type"`
	Search       string `form:"search"`
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=20"`
}

func (q *ListPromotionsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// RecordUsageRequest là payload internal ghi nhận một lượt redemption
type RecordUsageRequest struct {
	PromotionID    string          `json:"promotion_id"`
	OrderID        string          `json:"order_id"`
	UserID         *string         `json:"user_id,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

func (r RecordUsageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PromotionID, validation.Required.Error("Mã định danh khuyến mãi là bắt buộc")),
		validation.Field(&r.OrderID, validation.Required.Error("Mã đơn hàng là bắt buộc")),
	)
}
