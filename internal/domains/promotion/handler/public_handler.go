package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vgreen-backend/internal/domains/promotion/model"
	"vgreen-backend/internal/domains/promotion/service"
	"vgreen-backend/internal/shared/response"
	"vgreen-backend/pkg/logger"
)

// PublicHandler phục vụ storefront endpoints, không cần auth
type PublicHandler struct {
	service service.PromotionService
}

func NewPublicHandler(svc service.PromotionService) *PublicHandler {
	return &PublicHandler{service: svc}
}

// ========== GET /promotions ==========
// Danh sách promotion đang live, sắp hết hạn lên trước
func (h *PublicHandler) ListActive(c *gin.Context) {
	promos, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		logger.Error("[PromotionHandler] ListActive failed", err)
		response.ErrorResponse(c, http.StatusInternalServerError,
			string(model.ErrCodeInternalError), model.MsgPromoCheckFailed)
		return
	}

	response.Success(c, http.StatusOK, promos)
}

// ========== GET /promotions/code/:code ==========
func (h *PublicHandler) GetByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		response.BadRequest(c, "Mã khuyến mãi là bắt buộc")
		return
	}

	promo, err := h.service.GetByCode(c.Request.Context(), code)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionHandler] GetByCode failed", err)
		response.ErrorResponse(c, http.StatusInternalServerError,
			string(model.ErrCodeInternalError), model.MsgPromoCheckFailed)
		return
	}

	// Admin-type không xuất hiện trên storefront
	if promo.Type == model.PromotionTypeAdmin {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}

	response.Success(c, http.StatusOK, promo)
}

// ========== POST /promotions/validate ==========
// Kiểm tra mã cho giỏ hàng hiện tại. Mã không hợp lệ vẫn trả 200
// với is_valid=false - chỉ sự cố hạ tầng mới trả 5xx.
func (h *PublicHandler) ValidateCode(c *gin.Context) {
	var req model.ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "Dữ liệu không hợp lệ")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "Dữ liệu không hợp lệ", err)
		return
	}

	result, err := h.service.ValidateCode(c.Request.Context(), &req)
	if err != nil {
		logger.Error("[PromotionHandler] ValidateCode failed", err)
		response.ErrorResponse(c, http.StatusInternalServerError,
			string(model.ErrCodeInternalError), model.MsgPromoCheckFailed)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ========== POST /promotions/usage (internal) ==========
// Order service gọi khi đơn hàng hoàn tất. Decrement atomic,
// hết lượt trả 400 PROMO_EXHAUSTED.
func (h *PublicHandler) RecordUsage(c *gin.Context) {
	var req model.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "Dữ liệu không hợp lệ")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(model.ErrCodeValidationFailed), "Dữ liệu không hợp lệ", err)
		return
	}

	err := h.service.RecordUsage(c.Request.Context(), &req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"recorded": true})
	case err == model.ErrPromotionNotFound:
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
	case err == model.ErrUsageExhausted:
		response.ErrorResponse(c, http.StatusBadRequest,
			string(model.ErrCodePromoExhausted), model.MsgPromoExhausted)
	default:
		if appErr, ok := err.(*model.AppError); ok {
			response.ErrorResponse(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message)
			return
		}
		logger.Error("[PromotionHandler] RecordUsage failed", err)
		response.ErrorResponse(c, http.StatusInternalServerError,
			string(model.ErrCodeInternalError), model.MsgPromoCheckFailed)
	}
}
