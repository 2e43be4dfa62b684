package service

import (
	"context"

	"github.com/shopspring/decimal"

	"vgreen-backend/internal/domains/cart/model"
	"vgreen-backend/internal/domains/promotion/engine"
	promomodel "vgreen-backend/internal/domains/promotion/model"
	promoservice "vgreen-backend/internal/domains/promotion/service"
)

// CartService tính giá giỏ hàng stateless: resolve promotion áp dụng được,
// áp giảm giá từng dòng và expand buy1get1 thành dòng gifted
type CartService interface {
	Price(ctx context.Context, req *model.PriceCartRequest) (*model.PricedCart, error)
}

type cartService struct {
	promotions promoservice.PromotionService
}

func NewCartService(promotions promoservice.PromotionService) CartService {
	return &cartService{promotions: promotions}
}

func (s *cartService) Price(ctx context.Context, req *model.PriceCartRequest) (*model.PricedCart, error) {
	lines := make([]engine.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, engine.CartLine{
			SKU:         item.SKU,
			Category:    item.Category,
			Subcategory: item.Subcategory,
			Brand:       item.Brand,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}

	applicable, err := s.promotions.ResolveForCart(ctx, lines)
	if err != nil {
		return nil, err
	}

	return ExpandLines(lines, applicable), nil
}

// ExpandLines áp promotion vào từng dòng và expand buy1get1.
//
// Một SKU có thể dính ĐỒNG THỜI một promotion thường và một buy1get1:
// giảm giá thường chỉ áp lên dòng mua, dòng gifted luôn có giá đúng
// bằng 0 và mirror quantity của dòng mua. Khi nhiều promotion thường
// cùng match một SKU thì dòng đó nhận promotion sắp hết hạn nhất
// (applicable đã sort theo end_date tăng dần).
func ExpandLines(lines []engine.CartLine, applicable []*engine.Applicable) *model.PricedCart {
	normalBySKU := make(map[string]*engine.Applicable)
	bogoBySKU := make(map[string]*engine.Applicable)
	for _, a := range applicable {
		for _, sku := range a.MatchedSKUs {
			if a.Promotion.DiscountType == promomodel.DiscountTypeBuy1Get1 {
				if _, ok := bogoBySKU[sku]; !ok {
					bogoBySKU[sku] = a
				}
			} else {
				if _, ok := normalBySKU[sku]; !ok {
					normalBySKU[sku] = a
				}
			}
		}
	}

	cart := &model.PricedCart{
		Lines:    make([]model.PricedLine, 0, len(lines)),
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}
	saved := make(map[string]decimal.Decimal)

	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		unitPrice := line.Price
		discountedUnit := unitPrice

		priced := model.PricedLine{
			SKU:                 line.SKU,
			Quantity:            line.Quantity,
			UnitPrice:           unitPrice,
			DiscountedUnitPrice: unitPrice,
		}

		if normal, ok := normalBySKU[line.SKU]; ok {
			discountedUnit = engine.DiscountedPrice(normal.Promotion, unitPrice)
			priced.DiscountedUnitPrice = discountedUnit
			priced.AppliedPromotions = append(priced.AppliedPromotions, normal.Promotion.PromotionID)

			lineSaved := unitPrice.Sub(discountedUnit).Mul(qty)
			saved[normal.Promotion.PromotionID] = savedOrZero(saved, normal.Promotion.PromotionID).Add(lineSaved)
			cart.Discount = cart.Discount.Add(lineSaved)
		}

		priced.LineTotal = discountedUnit.Mul(qty)
		cart.Subtotal = cart.Subtotal.Add(unitPrice.Mul(qty))
		cart.Lines = append(cart.Lines, priced)

		// Dòng gifted: cùng SKU, cùng quantity, giá đúng bằng 0.
		// Giảm giá thường KHÔNG đụng vào dòng này.
		if bogo, ok := bogoBySKU[line.SKU]; ok {
			cart.Lines = append(cart.Lines, model.PricedLine{
				SKU:                 line.SKU,
				Quantity:            line.Quantity,
				UnitPrice:           decimal.Zero,
				DiscountedUnitPrice: decimal.Zero,
				LineTotal:           decimal.Zero,
				IsGift:              true,
				AppliedPromotions:   []string{bogo.Promotion.PromotionID},
			})
			saved[bogo.Promotion.PromotionID] = savedOrZero(saved, bogo.Promotion.PromotionID)
		}
	}

	cart.Total = cart.Subtotal.Sub(cart.Discount)

	cart.Promotions = make([]model.AppliedPromotion, 0, len(applicable))
	for _, a := range applicable {
		total, used := saved[a.Promotion.PromotionID]
		if !used {
			continue
		}
		cart.Promotions = append(cart.Promotions, model.AppliedPromotion{
			PromotionID:  a.Promotion.PromotionID,
			Code:         a.Promotion.Code,
			Name:         a.Promotion.Name,
			DiscountType: a.Promotion.DiscountType.String(),
			MatchedSKUs:  a.MatchedSKUs,
			TotalSaved:   total,
		})
	}

	return cart
}

func savedOrZero(saved map[string]decimal.Decimal, id string) decimal.Decimal {
	if v, ok := saved[id]; ok {
		return v
	}
	return decimal.Zero
}
