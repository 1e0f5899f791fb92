package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:     {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Counted reports whether orders in this status count as sales.
func (s OrderStatus) Counted() bool {
	return s == OrderStatusConfirmed || s == OrderStatusShipped
}

type Order struct {
	ID           string          `db:"id" json:"id"`
	ClientID     string          `db:"client_id" json:"client_id"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	Status       OrderStatus     `db:"status" json:"status"`
	ApplyVAT     bool            `db:"apply_vat" json:"apply_vat"`
	DeliveryCost decimal.Decimal `db:"delivery_cost" json:"delivery_cost"`

	// Joined from clients / client_discounts
	ClientName     string          `db:"client_name" json:"client_name"`
	ClientDiscount decimal.Decimal `db:"client_discount" json:"client_discount"`

	Lines []OrderLine `db:"-" json:"lines"`
}

type OrderLine struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"order_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Product   Product `db:"product" json:"product"`
}
