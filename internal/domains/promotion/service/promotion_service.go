package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vgreen-backend/internal/domains/promotion/engine"
	"vgreen-backend/internal/domains/promotion/model"
	"vgreen-backend/internal/domains/promotion/repository"
	"vgreen-backend/pkg/cache"
	"vgreen-backend/pkg/logger"
)

const (
	activePromotionsCacheKey = "promotions:active"
)

type promotionService struct {
	repo     repository.PromotionRepository
	resolver *engine.Resolver
	cache    cache.Cache
	cacheTTL time.Duration

	// now được inject để test pipeline theo thời gian cố định
	now func() time.Time
}

func NewPromotionService(
	repo repository.PromotionRepository,
	resolver *engine.Resolver,
	c cache.Cache,
	cacheTTL time.Duration,
) PromotionService {
	return &promotionService{
		repo:     repo,
		resolver: resolver,
		cache:    c,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// ========================= STOREFRONT =========================

func (s *promotionService) ListActive(ctx context.Context) ([]*ActivePromotion, error) {
	var cached []*ActivePromotion
	if hit, err := s.cache.Get(ctx, activePromotionsCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	now := s.now()
	promos, err := s.repo.ListLive(ctx, now)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(promos))
	for _, p := range promos {
		ids = append(ids, p.PromotionID)
	}
	targets, err := s.repo.FindTargets(ctx, ids)
	if err != nil {
		return nil, err
	}

	active := make([]*ActivePromotion, 0, len(promos))
	for _, p := range promos {
		active = append(active, &ActivePromotion{
			Promotion: p,
			Target:    targets[p.PromotionID],
		})
	}

	_ = s.cache.Set(ctx, activePromotionsCacheKey, active, s.cacheTTL)
	return active, nil
}

func (s *promotionService) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	return s.repo.FindByCode(ctx, code)
}

// ValidateCode - pipeline kiểm tra mã khuyến mãi.
// Mỗi lý do từ chối một branch và một message riêng, theo đúng thứ tự:
// tồn tại → chưa bắt đầu → hết hạn → bị vô hiệu → hết lượt → đơn tối
// thiểu → có sản phẩm áp dụng. Các branch disjoint, không gộp chung.
func (s *promotionService) ValidateCode(ctx context.Context, req *model.ValidateCodeRequest) (*model.ValidationResult, error) {
	now := s.now()

	// Bước 1: lookup theo code, chấp nhận sai hoa thường
	promo, err := s.repo.FindByCode(ctx, req.Code)
	if err == model.ErrPromotionNotFound {
		return invalid(model.MsgPromoNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	// Admin-type không bao giờ dùng được trên storefront,
	// với user thì không khác gì mã không tồn tại
	if promo.Type == model.PromotionTypeAdmin {
		return invalid(model.MsgPromoNotFound), nil
	}

	// Bước 2: date window, inclusive hai đầu
	if now.Before(promo.StartDate) {
		return invalid(model.MsgPromoNotStarted), nil
	}
	if now.After(promo.EndDate) {
		return invalid(model.MsgPromoExpired), nil
	}

	// Bước 3: admin tắt tay
	if promo.Status == model.StatusInactive {
		return invalid(model.MsgPromoInactive), nil
	}

	// Bước 4: còn lượt sử dụng
	if promo.IsExhausted() {
		return invalid(model.MsgPromoExhausted), nil
	}

	// Bước 5: giá trị đơn tối thiểu (subtotal == min vẫn đạt)
	lines := toCartLines(req.CartItems)
	subtotal := req.CartAmount
	if subtotal.IsZero() {
		subtotal = engine.Subtotal(lines)
	}
	if promo.MinOrderValue.IsPositive() && subtotal.LessThan(promo.MinOrderValue) {
		return invalid(fmt.Sprintf(model.MsgPromoMinOrderFmt, promo.MinOrderValue.StringFixed(0))), nil
	}

	// Bước 6: targeting - không có target record là wildcard
	target, err := s.repo.FindTarget(ctx, promo.PromotionID)
	if err != nil {
		return nil, err
	}
	matched := s.resolver.MatchedSKUs(ctx, lines, target)
	if len(matched) == 0 {
		return invalid(model.MsgPromoNotApplicable), nil
	}

	// Bước 7: tính thử mức giảm trên subtotal để client hiển thị
	discountAmount := engine.DiscountAmount(promo, subtotal)
	result := &model.PromotionResult{
		PromotionID:      promo.PromotionID,
		Code:             promo.Code,
		Name:             promo.Name,
		DiscountType:     promo.DiscountType,
		DiscountValue:    promo.DiscountValue,
		MaxDiscountValue: promo.MaxDiscountValue,
		MinOrderValue:    promo.MinOrderValue,
		EndDate:          promo.EndDate,
		MatchedProducts:  matched,
		DiscountAmount:   discountAmount,
		FinalAmount:      subtotal.Sub(discountAmount),
	}
	if target != nil {
		result.TargetType = target.TargetType
	}

	return &model.ValidationResult{
		IsValid:   true,
		Promotion: result,
		Message:   model.MsgPromoValid,
	}, nil
}

func (s *promotionService) ResolveForCart(ctx context.Context, lines []engine.CartLine) ([]*engine.Applicable, error) {
	now := s.now()

	promos, err := s.repo.ListLive(ctx, now)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(promos))
	for _, p := range promos {
		ids = append(ids, p.PromotionID)
	}
	targets, err := s.repo.FindTargets(ctx, ids)
	if err != nil {
		return nil, err
	}

	return s.resolver.Resolve(ctx, lines, engine.Subtotal(lines), now, promos, targets), nil
}

func invalid(message string) *model.ValidationResult {
	return &model.ValidationResult{IsValid: false, Message: message}
}

func toCartLines(items []model.CartItemDTO) []engine.CartLine {
	lines := make([]engine.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, engine.CartLine{
			SKU:         item.SKU,
			Category:    item.Category,
			Subcategory: item.Subcategory,
			Brand:       item.Brand,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return lines
}

// ========================= ORDER COMPLETION =========================

func (s *promotionService) RecordUsage(ctx context.Context, req *model.RecordUsageRequest) error {
	usage := &model.PromotionUsage{
		ID:             uuid.New(),
		PromotionID:    req.PromotionID,
		OrderID:        req.OrderID,
		DiscountAmount: req.DiscountAmount,
		UsedAt:         s.now(),
	}
	if req.UserID != nil {
		uid, err := uuid.Parse(*req.UserID)
		if err != nil {
			return &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "Mã người dùng không hợp lệ",
				HTTPStatus: 400,
			}
		}
		usage.UserID = &uid
	}

	if err := s.repo.ConsumeUsage(ctx, usage); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

// ========================= ADMIN =========================

func (s *promotionService) Create(ctx context.Context, req *model.CreatePromotionRequest) (*model.Promotion, error) {
	now := s.now()
	promo := &model.Promotion{
		ID:               uuid.New(),
		PromotionID:      req.PromotionID,
		Code:             req.Code,
		Name:             req.Name,
		Description:      req.Description,
		DiscountType:     req.DiscountType,
		DiscountValue:    req.DiscountValue,
		MaxDiscountValue: req.MaxDiscountValue,
		MinOrderValue:    req.MinOrderValue,
		UsageLimit:       req.UsageLimit,
		UserLimit:        req.UserLimit,
		IsFirstOrderOnly: req.IsFirstOrderOnly,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Type:             req.Type,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	promo.Status = promo.DeriveStatus(now)

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	logger.Info("[PromotionService] Promotion created", map[string]interface{}{
		"promotion_id": promo.PromotionID,
		"code":         promo.Code,
	})
	return promo, nil
}

func (s *promotionService) Get(ctx context.Context, promotionID string) (*model.Promotion, error) {
	return s.repo.FindByPromotionID(ctx, promotionID)
}

func (s *promotionService) List(ctx context.Context, query *model.ListPromotionsQuery) ([]*model.Promotion, int64, error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *promotionService) Update(ctx context.Context, promotionID string, req *model.UpdatePromotionRequest) (*model.Promotion, error) {
	promo, err := s.repo.FindByPromotionID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	// Chỉ apply field non-nil
	if req.Name != nil {
		promo.Name = *req.Name
	}
	if req.Description != nil {
		promo.Description = req.Description
	}
	if req.DiscountType != nil {
		promo.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		promo.DiscountValue = *req.DiscountValue
	}
	if req.MaxDiscountValue != nil {
		promo.MaxDiscountValue = req.MaxDiscountValue
	}
	if req.MinOrderValue != nil {
		promo.MinOrderValue = *req.MinOrderValue
	}
	if req.UsageLimit != nil {
		promo.UsageLimit = *req.UsageLimit
	}
	if req.UserLimit != nil {
		promo.UserLimit = *req.UserLimit
	}
	if req.IsFirstOrderOnly != nil {
		promo.IsFirstOrderOnly = *req.IsFirstOrderOnly
	}
	if req.StartDate != nil {
		promo.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		promo.EndDate = *req.EndDate
	}
	if req.Status != nil {
		promo.Status = *req.Status
	}
	if req.Type != nil {
		promo.Type = *req.Type
	}

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return promo, nil
}

func (s *promotionService) UpdateStatus(ctx context.Context, promotionID string, status model.PromotionStatus) (*model.Promotion, error) {
	return s.Update(ctx, promotionID, &model.UpdatePromotionRequest{Status: &status})
}

func (s *promotionService) Delete(ctx context.Context, promotionID string) error {
	if err := s.repo.Delete(ctx, promotionID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	logger.Info("[PromotionService] Promotion deleted", map[string]interface{}{
		"promotion_id": promotionID,
	})
	return nil
}

func (s *promotionService) GetTarget(ctx context.Context, promotionID string) (*model.PromotionTarget, error) {
	// Đảm bảo promotion tồn tại để phân biệt 404 với wildcard
	if _, err := s.repo.FindByPromotionID(ctx, promotionID); err != nil {
		return nil, err
	}
	return s.repo.FindTarget(ctx, promotionID)
}

func (s *promotionService) SetTarget(ctx context.Context, promotionID string, req *model.SetTargetRequest) (*model.PromotionTarget, error) {
	if _, err := s.repo.FindByPromotionID(ctx, promotionID); err != nil {
		return nil, err
	}

	now := s.now()
	target := &model.PromotionTarget{
		ID:          uuid.New(),
		PromotionID: promotionID,
		TargetType:  req.TargetType,
		TargetRef:   req.TargetRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SetTarget(ctx, target); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return target, nil
}

func (s *promotionService) RemoveTarget(ctx context.Context, promotionID string) error {
	if err := s.repo.DeleteTarget(ctx, promotionID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *promotionService) UsageHistory(ctx context.Context, promotionID string, page, limit int) ([]*model.PromotionUsage, int64, *model.UsageStats, error) {
	if _, err := s.repo.FindByPromotionID(ctx, promotionID); err != nil {
		return nil, 0, nil, err
	}

	usages, total, err := s.repo.ListUsage(ctx, promotionID, page, limit)
	if err != nil {
		return nil, 0, nil, err
	}
	stats, err := s.repo.UsageStats(ctx, promotionID)
	if err != nil {
		return nil, 0, nil, err
	}
	return usages, total, stats, nil
}

func (s *promotionService) invalidateCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, activePromotionsCacheKey); err != nil {
		logger.Warn("[PromotionService] Cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
