package domain

import "github.com/shopspring/decimal"

// Service is a bookable treatment from the catalog
type Service struct {
	ID         string
	Name       string
	CategoryID string
	Duration   string // в каталоге хранится строкой, может быть пустой или "45 min"
	Price      decimal.Decimal
	Active     bool
}
