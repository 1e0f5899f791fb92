package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderConfirmed        = "OrderConfirmed"
	CommandOrderConfirmRequest = "OrderConfirmRequested"
)

type OrderConfirmedEvent struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Payload   OrderConfirmedPayload `json:"payload"`
	Timestamp time.Time             `json:"timestamp"`
}

type OrderConfirmedPayload struct {
	ID       string             `json:"id"`
	ClientID string             `json:"client_id"`
	Total    decimal.Decimal    `json:"total"`
	Items    []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ConfirmRequestCommand asks the service to confirm an order on behalf of RequestedBy.
type ConfirmRequestCommand struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Payload   ConfirmRequestPayload `json:"payload"`
	Timestamp time.Time             `json:"timestamp"`
}

type ConfirmRequestPayload struct {
	OrderID     string `json:"order_id"`
	RequestedBy string `json:"requested_by"`
}
