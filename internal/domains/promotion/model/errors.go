package model

import "errors"

// Sentinel errors cho repository layer
var (
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrTargetNotFound    = errors.New("promotion target not found")
	ErrUsageExhausted    = errors.New("promotion usage limit reached")
	ErrDuplicateCode     = errors.New("promotion code already exists")
)

type ErrorCode string

const (
	// Promotion validation reasons - mỗi reason một code riêng,
	// caller không bao giờ được conflate thành generic error
	ErrCodePromoNotFound      ErrorCode = "PROMO_NOT_FOUND"       // 404
	ErrCodePromoNotStarted    ErrorCode = "PROMO_NOT_STARTED"     // 400
	ErrCodePromoExpired       ErrorCode = "PROMO_EXPIRED"         // 400
	ErrCodePromoInactive      ErrorCode = "PROMO_INACTIVE"        // 400
	ErrCodePromoExhausted     ErrorCode = "PROMO_EXHAUSTED"       // 400
	ErrCodePromoMinOrder      ErrorCode = "PROMO_MIN_ORDER_NOT_MET" // 400
	ErrCodePromoNotApplicable ErrorCode = "PROMO_NOT_APPLICABLE"  // 400

	// Admin operation errors
	ErrCodePromoDuplicateCode ErrorCode = "VAL_DUPLICATE_CODE" // 400

	// Validation errors (400)
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"

	// System errors (500)
	ErrCodeInternalError ErrorCode = "SYS_INTERNAL_ERROR"
)

// User-facing messages (tiếng Việt) - giữ nguyên wording để storefront
// hiển thị trực tiếp, mỗi failure branch một message riêng biệt
const (
	MsgPromoNotFound      = "Mã khuyến mãi không tồn tại"
	MsgPromoNotStarted    = "Mã khuyến mãi chưa có hiệu lực"
	MsgPromoExpired       = "Mã khuyến mãi đã hết hạn"
	MsgPromoInactive      = "Mã khuyến mãi đã bị vô hiệu hóa"
	MsgPromoExhausted     = "Mã khuyến mãi đã hết lượt sử dụng"
	MsgPromoNotApplicable = "Mã khuyến mãi không áp dụng cho sản phẩm trong giỏ hàng"
	// MsgPromoMinOrderFmt nhận min_order_value đã format
	MsgPromoMinOrderFmt = "Đơn hàng chưa đạt giá trị tối thiểu %s VND"
	MsgPromoValid         = "Mã khuyến mãi áp dụng thành công"
	MsgPromoCheckFailed   = "Không thể kiểm tra mã khuyến mãi, vui lòng thử lại sau"
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}
