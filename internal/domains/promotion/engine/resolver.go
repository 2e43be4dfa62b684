package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	catalog "vgreen-backend/internal/domains/catalog/model"
	"vgreen-backend/internal/domains/promotion/model"
)

// ProductSource cấp product record canonical theo SKU.
// Resolver dùng nó để re-fetch khi cart item thiếu metadata.
type ProductSource interface {
	FindBySKU(ctx context.Context, sku string) (*catalog.Product, error)
}

// CartLine là một dòng trong giỏ hàng dưới góc nhìn của engine.
// Category/Subcategory/Brand đến từ client nên không đáng tin -
// có thể rỗng hoặc sai, resolver sẽ re-fetch từ catalog khi thiếu.
type CartLine struct {
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal = price × quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal cộng tổng các dòng trong giỏ
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Applicable là một promotion đã match với giỏ hàng hiện tại
type Applicable struct {
	Promotion   *model.Promotion `json:"promotion"`
	TargetType  model.TargetType `json:"target_type,omitempty"` // rỗng với wildcard
	MatchedSKUs []string         `json:"matched_products"`
}

// Resolver tính tập promotion áp dụng được cho một giỏ hàng.
// Mọi data (promotion catalog, target catalog) được truyền vào tường minh;
// chỉ product lookup đi qua ProductSource vì nó là defensive re-fetch.
type Resolver struct {
	products ProductSource
}

func NewResolver(products ProductSource) *Resolver {
	return &Resolver{products: products}
}

// Resolve chạy pipeline đầy đủ:
//
// 1. Lọc live subset: start_date <= now <= end_date (inclusive cả hai đầu),
//    type != Admin, usage_limit > 0. Promotion hết lượt bị loại kể cả khi
//    còn trong window - đây là business rule, không phải bug.
// 2. Min-order gating: bỏ qua promotion có min_order_value > subtotal
//    (boundary inclusive: subtotal == min vẫn đạt).
// 3. Target lookup: không có target record = wildcard, matched = toàn bộ
//    SKU trong giỏ. Có target: match từng item qua Matches, re-fetch
//    product khi item thiếu metadata.
// 4. Applicable khi matched không rỗng.
// 5. Kết quả sort theo end_date tăng dần (sắp hết hạn lên trước) -
//    thứ tự này là contract của listing "khuyến mãi khả dụng".
//
// targets được key theo promotion_id (external code). Lookup product thất
// bại không làm fail cả resolve: item đó match bằng những field nó có sẵn.
func (r *Resolver) Resolve(
	ctx context.Context,
	lines []CartLine,
	subtotal decimal.Decimal,
	now time.Time,
	promotions []*model.Promotion,
	targets map[string]*model.PromotionTarget,
) []*Applicable {
	// Memoize product lookups trong một lần resolve
	subjects := r.buildSubjects(ctx, lines)

	var applicable []*Applicable

	for _, promo := range promotions {
		if !promo.IsLive(now) {
			continue
		}

		if promo.MinOrderValue.IsPositive() && subtotal.LessThan(promo.MinOrderValue) {
			continue
		}

		target := targets[promo.PromotionID]
		matched := matchedSKUs(subjects, target)
		if len(matched) == 0 {
			continue
		}

		entry := &Applicable{
			Promotion:   promo,
			MatchedSKUs: matched,
		}
		if target != nil {
			entry.TargetType = target.TargetType
		}
		applicable = append(applicable, entry)
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Promotion.EndDate.Before(applicable[j].Promotion.EndDate)
	})

	return applicable
}

// MatchedSKUs trả về các SKU trong giỏ match một target cụ thể.
// target nil = wildcard = mọi SKU. Dùng bởi validate-code path khi
// chỉ cần xét một promotion duy nhất.
func (r *Resolver) MatchedSKUs(ctx context.Context, lines []CartLine, target *model.PromotionTarget) []string {
	return matchedSKUs(r.buildSubjects(ctx, lines), target)
}

// buildSubjects chuyển cart lines thành matcher subjects, re-fetch
// canonical product khi line thiếu category/subcategory/brand.
// Cart metadata từ client không bao giờ được tin tưởng hoàn toàn.
func (r *Resolver) buildSubjects(ctx context.Context, lines []CartLine) []Subject {
	cache := make(map[string]*catalog.Product, len(lines))
	subjects := make([]Subject, 0, len(lines))

	for _, line := range lines {
		s := Subject{
			SKU:         line.SKU,
			Category:    line.Category,
			Subcategory: line.Subcategory,
			Brand:       line.Brand,
		}

		if line.Category == "" || line.Subcategory == "" || line.Brand == "" {
			product, ok := cache[line.SKU]
			if !ok {
				p, err := r.products.FindBySKU(ctx, line.SKU)
				if err == nil {
					product = p
				}
				cache[line.SKU] = product
			}
			// Lookup thất bại: match bằng những field line có sẵn (fail closed
			// trên các chiều thiếu), không fail cả resolve vì một item
			if product != nil {
				s.ProductID = product.ID.String()
				s.Category = product.Category
				s.Subcategory = product.Subcategory
				s.Brand = product.Brand
			}
		}

		subjects = append(subjects, s)
	}

	return subjects
}

func matchedSKUs(subjects []Subject, target *model.PromotionTarget) []string {
	matched := make([]string, 0, len(subjects))
	seen := make(map[string]bool, len(subjects))

	for _, s := range subjects {
		if seen[s.SKU] {
			continue
		}
		if target == nil || Matches(s, target) {
			matched = append(matched, s.SKU)
			seen[s.SKU] = true
		}
	}

	return matched
}
