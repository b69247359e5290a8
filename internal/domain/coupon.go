package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponType ограничивает, к чему применим купон
type CouponType string

const (
	CouponTypeProducts CouponType = "products"
	CouponTypeServices CouponType = "services"
	CouponTypeBoth     CouponType = "both"
)

// DiscountType способ расчёта скидки
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code. Categories restricts service coupons to the listed
// category ids; empty means every category.
type Coupon struct {
	ID            string
	Code          string
	Type          CouponType
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	Categories    []string
	Active        bool
	ExpiryDate    *time.Time
	UsageCount    int
}

// AppliesToServices returns true if the coupon can be used on a booking
func (c *Coupon) AppliesToServices() bool {
	return c.Type == CouponTypeServices || c.Type == CouponTypeBoth
}

// AppliesToCategory returns true if the coupon is not restricted or lists the category
func (c *Coupon) AppliesToCategory(categoryID string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, id := range c.Categories {
		if id == categoryID {
			return true
		}
	}
	return false
}

// DiscountFor returns the discount for the given price, never more than the price itself
func (c *Coupon) DiscountFor(price decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = price.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case DiscountFixed:
		discount = c.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(price) {
		return price
	}
	return discount
}
