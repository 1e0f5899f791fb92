package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SellerID           string          `db:"seller_id" json:"seller_id"`
	Name               string          `db:"name" json:"name"`
	Description        *string         `db:"description" json:"description"`
	Price              decimal.Decimal `db:"price" json:"price"`
	StockQuantity      int             `db:"stock_quantity" json:"stock_quantity"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
}
