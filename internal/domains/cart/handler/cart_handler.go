package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vgreen-backend/internal/domains/cart/model"
	"vgreen-backend/internal/domains/cart/service"
	promomodel "vgreen-backend/internal/domains/promotion/model"
	"vgreen-backend/internal/shared/response"
	"vgreen-backend/pkg/logger"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{service: svc}
}

// ========== POST /cart/price ==========
// Tính giá giỏ hàng với mọi promotion đang áp dụng được.
// Stateless: server không lưu giỏ, client gửi toàn bộ items mỗi lần.
func (h *CartHandler) Price(c *gin.Context) {
	var req model.PriceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest,
			string(promomodel.ErrCodeValidationFailed), "Dữ liệu không hợp lệ")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest,
			string(promomodel.ErrCodeValidationFailed), "Dữ liệu không hợp lệ", err)
		return
	}
	for _, item := range req.Items {
		if err := item.Validate(); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest,
				string(promomodel.ErrCodeValidationFailed), "Dữ liệu không hợp lệ", err)
			return
		}
	}

	cart, err := h.service.Price(c.Request.Context(), &req)
	if err != nil {
		logger.Error("[CartHandler] Price failed", err)
		response.ErrorResponse(c, http.StatusInternalServerError,
			string(promomodel.ErrCodeInternalError), promomodel.MsgPromoCheckFailed)
		return
	}

	response.Success(c, http.StatusOK, cart)
}
