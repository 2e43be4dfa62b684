package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vgreen-backend/internal/domains/catalog/model"
	"vgreen-backend/internal/domains/catalog/service"
	"vgreen-backend/internal/shared/response"
	"vgreen-backend/pkg/logger"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{service: svc}
}

// ========== GET /products/:sku ==========
// Storefront dùng để render badge khuyến mãi trên product card
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		response.BadRequest(c, "SKU sản phẩm là bắt buộc")
		return
	}

	product, err := h.service.FindBySKU(c.Request.Context(), sku)
	if err == model.ErrProductNotFound {
		response.NotFound(c, "Sản phẩm không tồn tại")
		return
	}
	if err != nil {
		logger.Error("[ProductHandler] GetBySKU failed", err)
		response.InternalServerError(c, "Không thể tải sản phẩm")
		return
	}

	response.Success(c, http.StatusOK, product)
}
