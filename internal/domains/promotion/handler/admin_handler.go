package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vgreen-backend/internal/domains/promotion/model"
	"vgreen-backend/internal/domains/promotion/service"
	"vgreen-backend/internal/shared/response"
	"vgreen-backend/pkg/logger"
)

// AdminHandler phục vụ admin CRUD, đứng sau JWT + admin middleware
type AdminHandler struct {
	service service.PromotionService
}

func NewAdminHandler(svc service.PromotionService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ========== POST /admin/promotions ==========
func (h *AdminHandler) Create(c *gin.Context) {
	var req model.CreatePromotionRequest
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

	promo, err := h.service.Create(c.Request.Context(), &req)
	if err == model.ErrDuplicateCode {
		response.ErrorResponse(c, http.StatusConflict,
			string(model.ErrCodePromoDuplicateCode), "Mã khuyến mãi đã tồn tại")
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] Create failed", err)
		response.InternalServerError(c, "Không thể tạo khuyến mãi")
		return
	}

	response.Success(c, http.StatusCreated, promo)
}

// ========== GET /admin/promotions ==========
func (h *AdminHandler) List(c *gin.Context) {
	var query model.ListPromotionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Tham số truy vấn không hợp lệ")
		return
	}

	promos, total, err := h.service.List(c.Request.Context(), &query)
	if err != nil {
		logger.Error("[PromotionAdmin] List failed", err)
		response.InternalServerError(c, "Không thể tải danh sách khuyến mãi")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, promos, &response.Meta{
		Page:  query.Page,
		Limit: query.Limit,
		Total: int(total),
	})
}

// ========== GET /admin/promotions/:id ==========
func (h *AdminHandler) Get(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	promo, err := h.service.Get(c.Request.Context(), promotionID)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] Get failed", err)
		response.InternalServerError(c, "Không thể tải khuyến mãi")
		return
	}

	response.Success(c, http.StatusOK, promo)
}

// ========== PUT /admin/promotions/:id ==========
func (h *AdminHandler) Update(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	var req model.UpdatePromotionRequest
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

	promo, err := h.service.Update(c.Request.Context(), promotionID, &req)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] Update failed", err)
		response.InternalServerError(c, "Không thể cập nhật khuyến mãi")
		return
	}

	response.Success(c, http.StatusOK, promo)
}

// ========== PATCH /admin/promotions/:id/status ==========
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	var req struct {
		Status model.PromotionStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	switch req.Status {
	case model.StatusActive, model.StatusExpired, model.StatusInactive:
	default:
		response.BadRequest(c, "Trạng thái không hợp lệ")
		return
	}

	promo, err := h.service.UpdateStatus(c.Request.Context(), promotionID, req.Status)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] UpdateStatus failed", err)
		response.InternalServerError(c, "Không thể cập nhật trạng thái")
		return
	}

	response.Success(c, http.StatusOK, promo)
}

// ========== DELETE /admin/promotions/:id ==========
func (h *AdminHandler) Delete(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	err := h.service.Delete(c.Request.Context(), promotionID)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] Delete failed", err)
		response.InternalServerError(c, "Không thể xóa khuyến mãi")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ========== PUT /admin/promotions/:id/target ==========
func (h *AdminHandler) SetTarget(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	var req model.SetTargetRequest
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

	target, err := h.service.SetTarget(c.Request.Context(), promotionID, &req)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] SetTarget failed", err)
		response.InternalServerError(c, "Không thể cập nhật target")
		return
	}

	response.Success(c, http.StatusOK, target)
}

// ========== DELETE /admin/promotions/:id/target ==========
func (h *AdminHandler) RemoveTarget(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	err := h.service.RemoveTarget(c.Request.Context(), promotionID)
	if err == model.ErrTargetNotFound {
		response.NotFound(c, "Khuyến mãi không có target")
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] RemoveTarget failed", err)
		response.InternalServerError(c, "Không thể xóa target")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ========== GET /admin/promotions/:id/usage ==========
func (h *AdminHandler) UsageHistory(c *gin.Context) {
	promotionID := strings.TrimSpace(c.Param("id"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	usages, total, stats, err := h.service.UsageHistory(c.Request.Context(), promotionID, page, limit)
	if err == model.ErrPromotionNotFound {
		response.ErrorResponse(c, http.StatusNotFound,
			string(model.ErrCodePromoNotFound), model.MsgPromoNotFound)
		return
	}
	if err != nil {
		logger.Error("[PromotionAdmin] UsageHistory failed", err)
		response.InternalServerError(c, "Không thể tải lịch sử sử dụng")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{
		"usage": usages,
		"stats": stats,
	}, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: int(total),
	})
}
