package engine

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"vgreen-backend/internal/domains/promotion/model"
)

func target(tt model.TargetType, refs ...string) *model.PromotionTarget {
	return &model.PromotionTarget{
		PromotionID: "PROMO001",
		TargetType:  tt,
		TargetRef:   pq.StringArray(refs),
	}
}

func TestMatches(t *testing.T) {
	subject := Subject{
		ProductID:   "3f2a0a1e-8c7d-4f7e-9b2a-1c9d8e7f6a5b",
		SKU:         "A1",
		Category:    "Rau củ",
		Subcategory: "Rau lá",
		Brand:       "VGreen Farm",
	}

	tests := []struct {
		name    string
		subject Subject
		target  *model.PromotionTarget
		want    bool
	}{
		{
			name:    "category match",
			subject: subject,
			target:  target(model.TargetTypeCategory, "Trái cây", "Rau củ"),
			want:    true,
		},
		{
			name:    "category miss",
			subject: subject,
			target:  target(model.TargetTypeCategory, "Trái cây"),
			want:    false,
		},
		{
			name:    "category match is case-sensitive",
			subject: subject,
			target:  target(model.TargetTypeCategory, "rau củ"),
			want:    false,
		},
		{
			name:    "subcategory match",
			subject: subject,
			target:  target(model.TargetTypeSubcategory, "Rau lá"),
			want:    true,
		},
		{
			name:    "brand match",
			subject: subject,
			target:  target(model.TargetTypeBrand, "VGreen Farm"),
			want:    true,
		},
		{
			name:    "product target matches by sku",
			subject: subject,
			target:  target(model.TargetTypeProduct, "A1", "B2"),
			want:    true,
		},
		{
			name:    "product target matches by product id",
			subject: subject,
			target:  target(model.TargetTypeProduct, "3f2a0a1e-8c7d-4f7e-9b2a-1c9d8e7f6a5b"),
			want:    true,
		},
		{
			name:    "product target miss",
			subject: subject,
			target:  target(model.TargetTypeProduct, "B2", "C3"),
			want:    false,
		},
		{
			name:    "unknown target type fails closed",
			subject: subject,
			target:  target(model.TargetType("Warehouse"), "Rau củ", "A1"),
			want:    false,
		},
		{
			name:    "empty ref list never matches",
			subject: subject,
			target:  target(model.TargetTypeCategory),
			want:    false,
		},
		{
			name:    "empty subject field does not match empty ref entry",
			subject: Subject{SKU: "A1", Category: ""},
			target:  target(model.TargetTypeCategory, ""),
			want:    false,
		},
		{
			name:    "nil target does not match",
			subject: subject,
			target:  nil,
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.subject, tc.target))
		})
	}
}
