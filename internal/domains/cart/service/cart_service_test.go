package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgreen-backend/internal/domains/promotion/engine"
	promomodel "vgreen-backend/internal/domains/promotion/model"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func promo(id string, dt promomodel.DiscountType, value int64) *promomodel.Promotion {
	return &promomodel.Promotion{
		PromotionID:   id,
		Code:          id,
		Name:          id,
		DiscountType:  dt,
		DiscountValue: d(value),
		UsageLimit:    10,
		EndDate:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Type:          promomodel.PromotionTypeUser,
	}
}

func TestExpandLines_NoPromotions(t *testing.T) {
	lines := []engine.CartLine{
		{SKU: "A1", Price: d(50000), Quantity: 2},
	}

	cart := ExpandLines(lines, nil)

	require.Len(t, cart.Lines, 1)
	assert.True(t, cart.Subtotal.Equal(d(100000)))
	assert.True(t, cart.Discount.Equal(decimal.Zero))
	assert.True(t, cart.Total.Equal(d(100000)))
	assert.Empty(t, cart.Promotions)
}

func TestExpandLines_PercentDiscount(t *testing.T) {
	lines := []engine.CartLine{
		{SKU: "A1", Price: d(50000), Quantity: 3},
		{SKU: "B2", Price: d(80000), Quantity: 1},
	}
	applicable := []*engine.Applicable{
		{Promotion: promo("SALE20", promomodel.DiscountTypePercent, 20), MatchedSKUs: []string{"A1"}},
	}

	cart := ExpandLines(lines, applicable)

	require.Len(t, cart.Lines, 2)
	// A1: 50000 → 40000, B2 giữ nguyên
	assert.True(t, cart.Lines[0].DiscountedUnitPrice.Equal(d(40000)))
	assert.True(t, cart.Lines[0].LineTotal.Equal(d(120000)))
	assert.True(t, cart.Lines[1].DiscountedUnitPrice.Equal(d(80000)))

	assert.True(t, cart.Subtotal.Equal(d(230000)))
	assert.True(t, cart.Discount.Equal(d(30000)))
	assert.True(t, cart.Total.Equal(d(200000)))

	require.Len(t, cart.Promotions, 1)
	assert.Equal(t, "SALE20", cart.Promotions[0].PromotionID)
	assert.True(t, cart.Promotions[0].TotalSaved.Equal(d(30000)))
}

func TestExpandLines_BogoAddsGiftedLine(t *testing.T) {
	lines := []engine.CartLine{
		{SKU: "A1", Price: d(50000), Quantity: 2},
	}
	applicable := []*engine.Applicable{
		{Promotion: promo("BOGO1", promomodel.DiscountTypeBuy1Get1, 0), MatchedSKUs: []string{"A1"}},
	}

	cart := ExpandLines(lines, applicable)

	require.Len(t, cart.Lines, 2)

	purchased := cart.Lines[0]
	gifted := cart.Lines[1]

	// Dòng mua giữ nguyên giá - buy1get1 không đổi giá
	assert.False(t, purchased.IsGift)
	assert.True(t, purchased.DiscountedUnitPrice.Equal(d(50000)))
	assert.True(t, purchased.LineTotal.Equal(d(100000)))

	// Dòng gifted: cùng SKU, cùng quantity, giá đúng bằng 0
	assert.True(t, gifted.IsGift)
	assert.Equal(t, purchased.SKU, gifted.SKU)
	assert.Equal(t, purchased.Quantity, gifted.Quantity)
	assert.True(t, gifted.UnitPrice.Equal(decimal.Zero))
	assert.True(t, gifted.LineTotal.Equal(decimal.Zero))

	// Tổng tiền không đổi
	assert.True(t, cart.Subtotal.Equal(d(100000)))
	assert.True(t, cart.Discount.Equal(decimal.Zero))
	assert.True(t, cart.Total.Equal(d(100000)))
}

func TestExpandLines_NormalAndBogoOnSameSKU(t *testing.T) {
	lines := []engine.CartLine{
		{SKU: "A1", Price: d(50000), Quantity: 1},
	}
	applicable := []*engine.Applicable{
		{Promotion: promo("SALE20", promomodel.DiscountTypePercent, 20), MatchedSKUs: []string{"A1"}},
		{Promotion: promo("BOGO1", promomodel.DiscountTypeBuy1Get1, 0), MatchedSKUs: []string{"A1"}},
	}

	cart := ExpandLines(lines, applicable)

	require.Len(t, cart.Lines, 2)

	// Giảm giá thường áp lên dòng mua
	assert.True(t, cart.Lines[0].DiscountedUnitPrice.Equal(d(40000)))

	// Dòng gifted vẫn đúng bằng 0, không bị giảm giá thường đụng vào
	assert.True(t, cart.Lines[1].IsGift)
	assert.True(t, cart.Lines[1].DiscountedUnitPrice.Equal(decimal.Zero))

	assert.True(t, cart.Total.Equal(d(40000)))
	require.Len(t, cart.Promotions, 2)
}

func TestExpandLines_SoonestExpiringNormalPromotionWins(t *testing.T) {
	lines := []engine.CartLine{
		{SKU: "A1", Price: d(100000), Quantity: 1},
	}

	// applicable đã sort theo end_date tăng dần
	first := promo("SALE10", promomodel.DiscountTypePercent, 10)
	second := promo("SALE30", promomodel.DiscountTypePercent, 30)
	applicable := []*engine.Applicable{
		{Promotion: first, MatchedSKUs: []string{"A1"}},
		{Promotion: second, MatchedSKUs: []string{"A1"}},
	}

	cart := ExpandLines(lines, applicable)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, []string{"SALE10"}, cart.Lines[0].AppliedPromotions)
	assert.True(t, cart.Discount.Equal(d(10000)))

	// Promotion không được dùng thì không xuất hiện trong applied
	require.Len(t, cart.Promotions, 1)
	assert.Equal(t, "SALE10", cart.Promotions[0].PromotionID)
}
