package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType represents valid discount types
type DiscountType string

const (
	DiscountTypePercent  DiscountType = "percent"
	DiscountTypeFixed    DiscountType = "fixed"
	DiscountTypeBuy1Get1 DiscountType = "buy1get1"
)

func (dt DiscountType) IsValid() bool {
	switch dt {
	case DiscountTypePercent, DiscountTypeFixed, DiscountTypeBuy1Get1:
		return true
	}
	return false
}

func (dt DiscountType) String() string {
	return string(dt)
}

// PromotionType phân loại promotion theo scope
// Admin-type promotions không bao giờ xuất hiện trên storefront
type PromotionType string

const (
	PromotionTypeAdmin PromotionType = "Admin"
	PromotionTypeUser  PromotionType = "User"
)

// PromotionStatus là trạng thái hiển thị do admin maintain.
// Live-ness thực sự được derive từ date window và usage_limit,
// không chỉ dựa vào field này (admin maintain không nhất quán).
type PromotionStatus string

const (
	StatusActive   PromotionStatus = "Active"
	StatusExpired  PromotionStatus = "Expired"
	StatusInactive PromotionStatus = "Inactive"
)

// Promotion represents a time-boxed discount campaign
type Promotion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PromotionID string    `json:"promotion_id" db:"promotion_id"` // stable external code, format PROMOxxx
	Code        string    `json:"code" db:"code"`                 // user-facing coupon string, unique
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`

	// Discount shape
	DiscountType     DiscountType     `json:"discount_type" db:"discount_type"`
	DiscountValue    decimal.Decimal  `json:"discount_value" db:"discount_value"` // % (0-100) hoặc số tiền VND; ignored cho buy1get1
	MaxDiscountValue *decimal.Decimal `json:"max_discount_value,omitempty" db:"max_discount_value"`

	// Eligibility
	MinOrderValue    decimal.Decimal `json:"min_order_value" db:"min_order_value"`
	UsageLimit       int             `json:"usage_limit" db:"usage_limit"` // số lượt redemption còn lại (global)
	UserLimit        int             `json:"user_limit" db:"user_limit"`
	IsFirstOrderOnly bool            `json:"is_first_order_only" db:"is_first_order_only"`

	// Validity window - cả hai đầu INCLUSIVE
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	Status PromotionStatus `json:"status" db:"status"`
	Type   PromotionType   `json:"type" db:"type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InWindow kiểm tra now có nằm trong validity window không
// Boundary inclusive ở cả start_date và end_date
func (p *Promotion) InWindow(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// IsLive kiểm tra promotion có đang live không:
// trong date window, không phải Admin-type, và còn lượt sử dụng.
// Không đọc Status - field đó chỉ để hiển thị.
func (p *Promotion) IsLive(now time.Time) bool {
	return p.InWindow(now) &&
		p.Type != PromotionTypeAdmin &&
		p.UsageLimit > 0
}

// IsExhausted kiểm tra promotion đã hết lượt sử dụng chưa
func (p *Promotion) IsExhausted() bool {
	return p.UsageLimit <= 0
}

// DeriveStatus tính status đúng từ date window và usage_limit.
// Worker dùng hàm này để reconcile cột status admins maintain tay.
func (p *Promotion) DeriveStatus(now time.Time) PromotionStatus {
	switch {
	case p.Status == StatusInactive:
		return StatusInactive
	case now.After(p.EndDate):
		return StatusExpired
	default:
		return StatusActive
	}
}

// HasDiscountCap kiểm tra có cap hợp lệ không (nil hoặc <= 0 nghĩa là unlimited)
func (p *Promotion) HasDiscountCap() bool {
	return p.MaxDiscountValue != nil && p.MaxDiscountValue.IsPositive()
}
