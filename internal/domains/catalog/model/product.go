package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product là hình chiếu tối thiểu của sản phẩm mà promotion engine
// và cart pricing cần: định danh + các chiều targeting + giá gốc.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	SKU         string          `json:"sku" db:"sku"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Subcategory string          `json:"subcategory" db:"subcategory"`
	Brand       string          `json:"brand" db:"brand"`
	Price       decimal.Decimal `json:"price" db:"price"` // giá gốc, VND nguyên đơn vị
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
