package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"vgreen-backend/internal/domains/promotion/model"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	dec := decimal.NewFromInt(v)
	return &dec
}

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name  string
		promo *model.Promotion
		base  decimal.Decimal
		want  decimal.Decimal
	}{
		{
			name: "percent without cap",
			promo: &model.Promotion{
				DiscountType:  model.DiscountTypePercent,
				DiscountValue: d(20),
			},
			base: d(50000),
			want: d(10000),
		},
		{
			name: "percent cap binds",
			promo: &model.Promotion{
				DiscountType:     model.DiscountTypePercent,
				DiscountValue:    d(50),
				MaxDiscountValue: dp(30000),
			},
			base: d(100000),
			want: d(30000),
		},
		{
			name: "percent cap not reached",
			promo: &model.Promotion{
				DiscountType:     model.DiscountTypePercent,
				DiscountValue:    d(10),
				MaxDiscountValue: dp(30000),
			},
			base: d(100000),
			want: d(10000),
		},
		{
			name: "zero cap means unlimited",
			promo: &model.Promotion{
				DiscountType:     model.DiscountTypePercent,
				DiscountValue:    d(50),
				MaxDiscountValue: dp(0),
			},
			base: d(100000),
			want: d(50000),
		},
		{
			name: "negative cap means unlimited",
			promo: &model.Promotion{
				DiscountType:     model.DiscountTypePercent,
				DiscountValue:    d(50),
				MaxDiscountValue: dp(-1),
			},
			base: d(100000),
			want: d(50000),
		},
		{
			name: "fixed below price",
			promo: &model.Promotion{
				DiscountType:  model.DiscountTypeFixed,
				DiscountValue: d(5000),
			},
			base: d(50000),
			want: d(5000),
		},
		{
			name: "fixed exceeding price clamps to price",
			promo: &model.Promotion{
				DiscountType:  model.DiscountTypeFixed,
				DiscountValue: d(15000),
			},
			base: d(10000),
			want: d(10000),
		},
		{
			name: "buy1get1 never changes price",
			promo: &model.Promotion{
				DiscountType:  model.DiscountTypeBuy1Get1,
				DiscountValue: d(100),
			},
			base: d(50000),
			want: decimal.Zero,
		},
		{
			name: "unknown discount type is a no-op",
			promo: &model.Promotion{
				DiscountType:  model.DiscountType("loyalty"),
				DiscountValue: d(100),
			},
			base: d(50000),
			want: decimal.Zero,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountAmount(tc.promo, tc.base)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestDiscountedPrice(t *testing.T) {
	promo := &model.Promotion{
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: d(15000),
	}

	// Giá sau giảm không bao giờ âm
	got := DiscountedPrice(promo, d(10000))
	assert.True(t, got.Equal(decimal.Zero), "want 0 got %s", got)

	promo.DiscountValue = d(4000)
	got = DiscountedPrice(promo, d(10000))
	assert.True(t, got.Equal(d(6000)), "want 6000 got %s", got)
}
