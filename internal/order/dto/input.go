package dto

import (
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/shopspring/decimal"
)

// Caller identifies who is asking. Non-staff callers only reach their own orders.
type Caller struct {
	ClientID string
	IsStaff  bool
}

type GetOrderInput struct {
	Caller
	OrderID string
}

type ListOrdersInput struct {
	Caller
	Status         string
	FilterClientID string // honoured for staff only
	DateFrom       string // YYYY-MM-DD
	DateTo         string // YYYY-MM-DD
}

type ConfirmOrderInput struct {
	Caller
	OrderID string
}

// OrderView is an order with its total derived at read time.
type OrderView struct {
	*model.Order
	Pricing pricing.Breakdown `json:"pricing"`
	Total   decimal.Decimal   `json:"total"`
}

type ConfirmResult struct {
	OrderView
	// Transitioned is false when the order was not a draft and nothing changed.
	Transitioned   bool              `json:"transitioned"`
	PreviousStatus model.OrderStatus `json:"previous_status"`
}
