package pricing

import (
	"fmt"

	"github.com/fekuna/omnipos-order-service/internal/model"
)

type StockShortageError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("not enough stock for %s (%s): %d requested, %d available",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// InvalidQuantityError reports an order line whose quantity is not positive.
type InvalidQuantityError struct {
	LineID    string
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("order line %s for product %s has invalid quantity %d", e.LineID, e.ProductID, e.Quantity)
}

// InvalidTransitionError reports a status change the order state machine does not allow.
// Confirming a non-draft order yields this error and changes nothing.
type InvalidTransitionError struct {
	OrderID string
	From    model.OrderStatus
	To      model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot transition from %s to %s", e.OrderID, e.From, e.To)
}
