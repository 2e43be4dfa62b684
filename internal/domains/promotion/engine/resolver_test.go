package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "vgreen-backend/internal/domains/catalog/model"
	"vgreen-backend/internal/domains/promotion/model"
)

type stubProducts struct {
	bySKU map[string]*catalog.Product
	calls int
}

func (s *stubProducts) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	s.calls++
	if p, ok := s.bySKU[sku]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

func livePromo(id string, endDate time.Time) *model.Promotion {
	return &model.Promotion{
		ID:            uuid.New(),
		PromotionID:   id,
		Code:          id,
		DiscountType:  model.DiscountTypePercent,
		DiscountValue: d(10),
		MinOrderValue: decimal.Zero,
		UsageLimit:    50,
		StartDate:     endDate.AddDate(0, -1, 0),
		EndDate:       endDate,
		Status:        model.StatusActive,
		Type:          model.PromotionTypeUser,
	}
}

func TestResolve_LiveFiltering(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	lines := []CartLine{{SKU: "A1", Category: "Rau củ", Subcategory: "Rau lá", Brand: "VGreen Farm", Price: d(50000), Quantity: 1}}

	notStarted := livePromo("PROMO_FUTURE", now.AddDate(0, 2, 0))
	notStarted.StartDate = now.AddDate(0, 1, 0)

	expired := livePromo("PROMO_PAST", now.AddDate(0, -1, 0))

	admin := livePromo("PROMO_ADMIN", now.AddDate(0, 1, 0))
	admin.Type = model.PromotionTypeAdmin

	exhausted := livePromo("PROMO_USED_UP", now.AddDate(0, 1, 0))
	exhausted.UsageLimit = 0

	startsNow := livePromo("PROMO_STARTS_NOW", now.AddDate(0, 1, 0))
	startsNow.StartDate = now

	endsNow := livePromo("PROMO_ENDS_NOW", now)

	r := NewResolver(&stubProducts{})
	got := r.Resolve(context.Background(), lines, Subtotal(lines), now,
		[]*model.Promotion{notStarted, expired, admin, exhausted, startsNow, endsNow}, nil)

	require.Len(t, got, 2)
	// Cả hai boundary đều inclusive
	assert.Equal(t, "PROMO_ENDS_NOW", got[0].Promotion.PromotionID)
	assert.Equal(t, "PROMO_STARTS_NOW", got[1].Promotion.PromotionID)
}

func TestResolve_MinOrderBoundary(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	lines := []CartLine{{SKU: "A1", Category: "Rau củ", Price: d(50000), Quantity: 2}}

	exactly := livePromo("PROMO_EXACT", now.AddDate(0, 1, 0))
	exactly.MinOrderValue = d(100000)

	above := livePromo("PROMO_ABOVE", now.AddDate(0, 1, 0))
	above.MinOrderValue = d(100001)

	r := NewResolver(&stubProducts{})
	got := r.Resolve(context.Background(), lines, Subtotal(lines), now,
		[]*model.Promotion{exactly, above}, nil)

	// subtotal == min_order_value vẫn đạt, lớn hơn mới trượt
	require.Len(t, got, 1)
	assert.Equal(t, "PROMO_EXACT", got[0].Promotion.PromotionID)
}

func TestResolve_WildcardAndTargeted(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	lines := []CartLine{
		{SKU: "A1", Category: "Rau củ", Subcategory: "Rau lá", Brand: "VGreen Farm", Price: d(50000), Quantity: 3},
		{SKU: "B2", Category: "Trái cây", Subcategory: "Trái cây nhập", Brand: "Dole", Price: d(80000), Quantity: 1},
	}

	wildcard := livePromo("PROMO_ALL", now.AddDate(0, 1, 0))
	veggies := livePromo("SALE20", now.AddDate(0, 2, 0))
	noMatch := livePromo("PROMO_MEAT", now.AddDate(0, 3, 0))

	targets := map[string]*model.PromotionTarget{
		"SALE20":     {PromotionID: "SALE20", TargetType: model.TargetTypeCategory, TargetRef: pq.StringArray{"Rau củ"}},
		"PROMO_MEAT": {PromotionID: "PROMO_MEAT", TargetType: model.TargetTypeCategory, TargetRef: pq.StringArray{"Thịt cá"}},
	}

	r := NewResolver(&stubProducts{})
	got := r.Resolve(context.Background(), lines, Subtotal(lines), now,
		[]*model.Promotion{noMatch, veggies, wildcard}, targets)

	// Sort theo end_date tăng dần; promotion không match item nào bị loại
	require.Len(t, got, 2)

	assert.Equal(t, "PROMO_ALL", got[0].Promotion.PromotionID)
	assert.Empty(t, got[0].TargetType)
	assert.Equal(t, []string{"A1", "B2"}, got[0].MatchedSKUs)

	assert.Equal(t, "SALE20", got[1].Promotion.PromotionID)
	assert.Equal(t, model.TargetTypeCategory, got[1].TargetType)
	assert.Equal(t, []string{"A1"}, got[1].MatchedSKUs)
}

func TestResolve_RefetchesIncompleteLines(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	products := &stubProducts{bySKU: map[string]*catalog.Product{
		"A1": {
			ID:          uuid.New(),
			SKU:         "A1",
			Name:        "Cải bó xôi",
			Category:    "Rau củ",
			Subcategory: "Rau lá",
			Brand:       "VGreen Farm",
			Price:       d(50000),
			IsActive:    true,
		},
	}}

	// Client gửi line không có metadata
	lines := []CartLine{{SKU: "A1", Price: d(50000), Quantity: 1}}

	promo := livePromo("SALE20", now.AddDate(0, 1, 0))
	targets := map[string]*model.PromotionTarget{
		"SALE20": {PromotionID: "SALE20", TargetType: model.TargetTypeCategory, TargetRef: pq.StringArray{"Rau củ"}},
	}

	r := NewResolver(products)
	got := r.Resolve(context.Background(), lines, Subtotal(lines), now, []*model.Promotion{promo}, targets)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"A1"}, got[0].MatchedSKUs)
	assert.Equal(t, 1, products.calls)
}

func TestResolve_LookupFailureDegradesToLineFields(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	products := &stubProducts{} // mọi lookup đều not found

	lines := []CartLine{
		{SKU: "GHOST", Brand: "VGreen Farm", Price: d(20000), Quantity: 1},
	}

	byBrand := livePromo("PROMO_BRAND", now.AddDate(0, 1, 0))
	byCategory := livePromo("PROMO_CAT", now.AddDate(0, 2, 0))

	targets := map[string]*model.PromotionTarget{
		"PROMO_BRAND": {PromotionID: "PROMO_BRAND", TargetType: model.TargetTypeBrand, TargetRef: pq.StringArray{"VGreen Farm"}},
		"PROMO_CAT":   {PromotionID: "PROMO_CAT", TargetType: model.TargetTypeCategory, TargetRef: pq.StringArray{"Rau củ"}},
	}

	r := NewResolver(products)
	got := r.Resolve(context.Background(), lines, Subtotal(lines), now,
		[]*model.Promotion{byBrand, byCategory}, targets)

	// Brand có trên line nên vẫn match; category thiếu và không re-fetch được thì fail closed
	require.Len(t, got, 1)
	assert.Equal(t, "PROMO_BRAND", got[0].Promotion.PromotionID)
}

func TestMatchedSKUs_DeduplicatesRepeatedSKU(t *testing.T) {
	lines := []CartLine{
		{SKU: "A1", Category: "Rau củ", Subcategory: "Rau lá", Brand: "VGreen Farm", Price: d(50000), Quantity: 1},
		{SKU: "A1", Category: "Rau củ", Subcategory: "Rau lá", Brand: "VGreen Farm", Price: d(50000), Quantity: 2},
	}

	r := NewResolver(&stubProducts{})
	got := r.MatchedSKUs(context.Background(), lines, nil)
	assert.Equal(t, []string{"A1"}, got)
}

func TestSubtotal(t *testing.T) {
	lines := []CartLine{
		{SKU: "A1", Price: d(50000), Quantity: 3},
		{SKU: "B2", Price: d(80000), Quantity: 1},
	}
	assert.True(t, Subtotal(lines).Equal(d(230000)))
}
