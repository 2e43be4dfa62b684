package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "vgreen-backend/internal/domains/catalog/model"
	"vgreen-backend/internal/domains/promotion/engine"
	"vgreen-backend/internal/domains/promotion/model"
)

// ===== stubs =====

type stubRepo struct {
	promosByCode map[string]*model.Promotion
	targets      map[string]*model.PromotionTarget
	live         []*model.Promotion

	consumeErr   error
	consumedWith *model.PromotionUsage
}

func (r *stubRepo) FindByCode(_ context.Context, code string) (*model.Promotion, error) {
	// Stub mô phỏng LOWER(code) = LOWER($1) của Postgres
	for stored, p := range r.promosByCode {
		if strings.EqualFold(stored, code) {
			return p, nil
		}
	}
	return nil, model.ErrPromotionNotFound
}

func (r *stubRepo) FindByPromotionID(_ context.Context, id string) (*model.Promotion, error) {
	for _, p := range r.promosByCode {
		if p.PromotionID == id {
			return p, nil
		}
	}
	return nil, model.ErrPromotionNotFound
}

func (r *stubRepo) ListLive(_ context.Context, _ time.Time) ([]*model.Promotion, error) {
	return r.live, nil
}

func (r *stubRepo) List(_ context.Context, _ *model.ListPromotionsQuery) ([]*model.Promotion, int64, error) {
	return r.live, int64(len(r.live)), nil
}

func (r *stubRepo) Create(_ context.Context, _ *model.Promotion) error { return nil }
func (r *stubRepo) Update(_ context.Context, _ *model.Promotion) error { return nil }
func (r *stubRepo) Delete(_ context.Context, _ string) error           { return nil }

func (r *stubRepo) FindTarget(_ context.Context, promotionID string) (*model.PromotionTarget, error) {
	return r.targets[promotionID], nil
}

func (r *stubRepo) FindTargets(_ context.Context, ids []string) (map[string]*model.PromotionTarget, error) {
	out := make(map[string]*model.PromotionTarget)
	for _, id := range ids {
		if t, ok := r.targets[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (r *stubRepo) SetTarget(_ context.Context, _ *model.PromotionTarget) error { return nil }
func (r *stubRepo) DeleteTarget(_ context.Context, _ string) error              { return nil }

func (r *stubRepo) ConsumeUsage(_ context.Context, usage *model.PromotionUsage) error {
	if r.consumeErr != nil {
		return r.consumeErr
	}
	r.consumedWith = usage
	return nil
}

func (r *stubRepo) ListUsage(_ context.Context, _ string, _, _ int) ([]*model.PromotionUsage, int64, error) {
	return nil, 0, nil
}

func (r *stubRepo) UsageStats(_ context.Context, _ string) (*model.UsageStats, error) {
	return &model.UsageStats{}, nil
}

func (r *stubRepo) ReconcileStatuses(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type noopCache struct {
	deletes []string
}

func (c *noopCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (c *noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (c *noopCache) Delete(_ context.Context, keys ...string) error {
	c.deletes = append(c.deletes, keys...)
	return nil
}
func (c *noopCache) DeletePattern(_ context.Context, _ string) error { return nil }
func (c *noopCache) Ping(_ context.Context) error                    { return nil }

type noProducts struct{}

func (noProducts) FindBySKU(_ context.Context, _ string) (*catalog.Product, error) {
	return nil, catalog.ErrProductNotFound
}

// ===== fixtures =====

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func sale20() *model.Promotion {
	return &model.Promotion{
		ID:            uuid.New(),
		PromotionID:   "PROMO020",
		Code:          "SALE20",
		Name:          "Giảm 20% rau củ",
		DiscountType:  model.DiscountTypePercent,
		DiscountValue: d(20),
		MinOrderValue: d(100000),
		UsageLimit:    100,
		StartDate:     testNow.AddDate(0, -1, 0),
		EndDate:       testNow.AddDate(0, 1, 0),
		Status:        model.StatusActive,
		Type:          model.PromotionTypeUser,
	}
}

func newService(repo *stubRepo) (*promotionService, *noopCache) {
	c := &noopCache{}
	svc := NewPromotionService(repo, engine.NewResolver(noProducts{}), c, 5*time.Minute).(*promotionService)
	svc.now = func() time.Time { return testNow }
	return svc, c
}

func veggieCart() *model.ValidateCodeRequest {
	return &model.ValidateCodeRequest{
		Code: "SALE20",
		CartItems: []model.CartItemDTO{
			{SKU: "A1", Category: "Rau củ", Subcategory: "Rau lá", Brand: "VGreen Farm", Price: d(50000), Quantity: 3},
		},
		CartAmount: d(150000),
	}
}

// ===== tests =====

func TestValidateCode_EndToEnd(t *testing.T) {
	repo := &stubRepo{
		promosByCode: map[string]*model.Promotion{"SALE20": sale20()},
		targets: map[string]*model.PromotionTarget{
			"PROMO020": {PromotionID: "PROMO020", TargetType: model.TargetTypeCategory, TargetRef: pq.StringArray{"Rau củ"}},
		},
	}
	svc, _ := newService(repo)

	result, err := svc.ValidateCode(context.Background(), veggieCart())
	require.NoError(t, err)
	require.True(t, result.IsValid)
	require.NotNil(t, result.Promotion)

	assert.Equal(t, model.MsgPromoValid, result.Message)
	assert.Equal(t, "PROMO020", result.Promotion.PromotionID)
	assert.Equal(t, []string{"A1"}, result.Promotion.MatchedProducts)
	assert.Equal(t, model.TargetTypeCategory, result.Promotion.TargetType)
	// 20% của 150000 = 30000, không có cap
	assert.True(t, result.Promotion.DiscountAmount.Equal(d(30000)))
	assert.True(t, result.Promotion.FinalAmount.Equal(d(120000)))
}

func TestValidateCode_CaseInsensitiveLookup(t *testing.T) {
	repo := &stubRepo{
		promosByCode: map[string]*model.Promotion{"SALE20": sale20()},
	}
	svc, _ := newService(repo)

	req := veggieCart()
	req.Code = "sale20"

	result, err := svc.ValidateCode(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestValidateCode_RejectionBranches(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *model.Promotion, req *model.ValidateCodeRequest)
		message string
	}{
		{
			name:    "unknown code",
			mutate:  func(_ *model.Promotion, req *model.ValidateCodeRequest) { req.Code = "KHONGCO" },
			message: model.MsgPromoNotFound,
		},
		{
			name:    "admin-type looks like not found",
			mutate:  func(p *model.Promotion, _ *model.ValidateCodeRequest) { p.Type = model.PromotionTypeAdmin },
			message: model.MsgPromoNotFound,
		},
		{
			name:    "not started",
			mutate:  func(p *model.Promotion, _ *model.ValidateCodeRequest) { p.StartDate = testNow.AddDate(0, 0, 1) },
			message: model.MsgPromoNotStarted,
		},
		{
			name:    "expired",
			mutate:  func(p *model.Promotion, _ *model.ValidateCodeRequest) { p.EndDate = testNow.AddDate(0, 0, -1) },
			message: model.MsgPromoExpired,
		},
		{
			name:    "inactive",
			mutate:  func(p *model.Promotion, _ *model.ValidateCodeRequest) { p.Status = model.StatusInactive },
			message: model.MsgPromoInactive,
		},
		{
			name:    "exhausted",
			mutate:  func(p *model.Promotion, _ *model.ValidateCodeRequest) { p.UsageLimit = 0 },
			message: model.MsgPromoExhausted,
		},
		{
			name: "below min order",
			mutate: func(_ *model.Promotion, req *model.ValidateCodeRequest) {
				req.CartItems[0].Quantity = 1
				req.CartAmount = d(50000)
			},
			message: "Đơn hàng chưa đạt giá trị tối thiểu 100000 VND",
		},
		{
			name: "no matching item",
			mutate: func(_ *model.Promotion, req *model.ValidateCodeRequest) {
				req.CartItems[0].Category = "Thịt cá"
			},
			message: model.MsgPromoNotApplicable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			promo := sale20()
			repo := &stubRepo{
				promosByCode: map[string]*model.Promotion{"SALE20": promo},
				targets: map[string]*model.PromotionTarget{
					"PROMO020": {PromotionID: "PROMO020", TargetType: model.TargetTypeCategory, TargetRef: pq.StringArray{"Rau củ"}},
				},
			}
			svc, _ := newService(repo)

			req := veggieCart()
			tc.mutate(promo, req)

			result, err := svc.ValidateCode(context.Background(), req)
			require.NoError(t, err)
			assert.False(t, result.IsValid)
			assert.Nil(t, result.Promotion)
			assert.Equal(t, tc.message, result.Message)
		})
	}
}

func TestValidateCode_WindowBoundariesInclusive(t *testing.T) {
	promo := sale20()
	promo.StartDate = testNow
	promo.EndDate = testNow

	repo := &stubRepo{promosByCode: map[string]*model.Promotion{"SALE20": promo}}
	svc, _ := newService(repo)

	result, err := svc.ValidateCode(context.Background(), veggieCart())
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestValidateCode_WildcardTarget(t *testing.T) {
	// Không có target record = áp dụng mọi sản phẩm
	repo := &stubRepo{promosByCode: map[string]*model.Promotion{"SALE20": sale20()}}
	svc, _ := newService(repo)

	req := veggieCart()
	req.CartItems[0].Category = "Thịt cá"

	result, err := svc.ValidateCode(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.IsValid)
	assert.Equal(t, []string{"A1"}, result.Promotion.MatchedProducts)
	assert.Empty(t, result.Promotion.TargetType)
}

func TestRecordUsage(t *testing.T) {
	repo := &stubRepo{promosByCode: map[string]*model.Promotion{"SALE20": sale20()}}
	svc, c := newService(repo)

	err := svc.RecordUsage(context.Background(), &model.RecordUsageRequest{
		PromotionID:    "PROMO020",
		OrderID:        "ORD-2026-0001",
		DiscountAmount: d(30000),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.consumedWith)

	assert.Equal(t, "PROMO020", repo.consumedWith.PromotionID)
	assert.Equal(t, "ORD-2026-0001", repo.consumedWith.OrderID)
	assert.Contains(t, c.deletes, activePromotionsCacheKey)
}

func TestRecordUsage_Exhausted(t *testing.T) {
	repo := &stubRepo{consumeErr: model.ErrUsageExhausted}
	svc, _ := newService(repo)

	err := svc.RecordUsage(context.Background(), &model.RecordUsageRequest{
		PromotionID: "PROMO020",
		OrderID:     "ORD-2026-0002",
	})
	assert.ErrorIs(t, err, model.ErrUsageExhausted)
}

func TestAdminWritesInvalidateCache(t *testing.T) {
	repo := &stubRepo{promosByCode: map[string]*model.Promotion{"SALE20": sale20()}}
	svc, c := newService(repo)

	_, err := svc.Create(context.Background(), &model.CreatePromotionRequest{
		PromotionID:   "PROMO021",
		Code:          "SALE21",
		Name:          "Test",
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: d(5000),
		StartDate:     testNow,
		EndDate:       testNow.AddDate(0, 1, 0),
		Type:          model.PromotionTypeUser,
	})
	require.NoError(t, err)

	status := model.StatusInactive
	_, err = svc.Update(context.Background(), "PROMO020", &model.UpdatePromotionRequest{Status: &status})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(c.deletes), 2)
}
