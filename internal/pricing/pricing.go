// Package pricing computes order totals and guards the draft to confirmed transition.
//
// All amounts are decimal.Decimal. Intermediate values keep full precision; only the final
// total is rounded, half-up, to two places.
package pricing

import (
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/shopspring/decimal"
)

type Config struct {
	VolumeDiscountThreshold decimal.Decimal
	VolumeDiscountRate      decimal.Decimal
	VATRate                 decimal.Decimal
	FreeDeliveryThreshold   decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		VolumeDiscountThreshold: decimal.NewFromInt(150000),
		VolumeDiscountRate:      decimal.RequireFromString("0.10"),
		VATRate:                 decimal.RequireFromString("0.12"),
		FreeDeliveryThreshold:   decimal.NewFromInt(2000),
	}
}

// Breakdown holds every step of a total computation.
type Breakdown struct {
	ItemsTotal           decimal.Decimal `json:"items_total"`
	ProductDiscountTotal decimal.Decimal `json:"product_discount_total"`
	ClientDiscountAmount decimal.Decimal `json:"client_discount_amount"`
	VolumeDiscount       decimal.Decimal `json:"volume_discount"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	VAT                  decimal.Decimal `json:"vat"`
	DeliveryFee          decimal.Decimal `json:"delivery_fee"`
	Total                decimal.Decimal `json:"total"`

	// Clamped is set when discounts exceeded the items total and the subtotal was forced to zero.
	Clamped bool `json:"clamped"`
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ComputeTotal prices lines for order. clientDiscountPercent is zero when the client has no
// discount record.
func (e *Engine) ComputeTotal(order *model.Order, lines []model.OrderLine, clientDiscountPercent decimal.Decimal) Breakdown {
	var b Breakdown

	for _, line := range lines {
		lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		b.ItemsTotal = b.ItemsTotal.Add(lineTotal)
		b.ProductDiscountTotal = b.ProductDiscountTotal.Add(percentOf(lineTotal, line.Product.DiscountPercentage))
	}

	b.ClientDiscountAmount = percentOf(b.ItemsTotal, clientDiscountPercent)

	if b.ItemsTotal.GreaterThan(e.cfg.VolumeDiscountThreshold) {
		b.VolumeDiscount = b.ItemsTotal.Mul(e.cfg.VolumeDiscountRate)
	}

	discounts := b.ClientDiscountAmount.Add(b.ProductDiscountTotal).Add(b.VolumeDiscount)
	b.Subtotal = b.ItemsTotal.Sub(discounts)
	if b.Subtotal.IsNegative() {
		b.Subtotal = decimal.Zero
		b.Clamped = true
	}

	if order.ApplyVAT {
		b.VAT = b.Subtotal.Mul(e.cfg.VATRate)
	}

	if !b.Subtotal.GreaterThan(e.cfg.FreeDeliveryThreshold) {
		b.DeliveryFee = order.DeliveryCost
	}

	b.Total = b.Subtotal.Add(b.VAT).Add(b.DeliveryFee).Round(2)
	return b
}

// OrderTotal prices an order using its own lines and joined client discount.
func (e *Engine) OrderTotal(order *model.Order) Breakdown {
	return e.ComputeTotal(order, order.Lines, order.ClientDiscount)
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Shift(-2)
}
