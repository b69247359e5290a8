package coupons

import "github.com/shopspring/decimal"

// Discount применённый к записи купон
type Discount struct {
	CouponID string
	Code     string
	Amount   decimal.Decimal
}
