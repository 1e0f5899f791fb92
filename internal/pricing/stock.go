package pricing

import (
	"sort"

	"github.com/fekuna/omnipos-order-service/internal/model"
)

// ValidateStock fails on the first line whose quantity exceeds its product's stock.
// A line with a non-positive quantity fails with InvalidQuantityError.
func ValidateStock(lines []model.OrderLine) error {
	for _, line := range lines {
		if err := checkQuantity(line); err != nil {
			return err
		}
		if line.Quantity > line.Product.StockQuantity {
			return &StockShortageError{
				ProductID:   line.ProductID,
				ProductName: line.Product.Name,
				Requested:   line.Quantity,
				Available:   line.Product.StockQuantity,
			}
		}
	}
	return nil
}

func checkQuantity(line model.OrderLine) error {
	if line.Quantity <= 0 {
		return &InvalidQuantityError{LineID: line.ID, ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return nil
}

// StockDecrement is the quantity to take from one product when an order is confirmed.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// PlanConfirmation checks that order may be confirmed and returns the stock decrements to
// apply, one per product, ordered by product id. lines must carry current (locked) product
// stock. Nothing is returned unless every line passes.
func PlanConfirmation(order *model.Order, lines []model.OrderLine) ([]StockDecrement, error) {
	if !order.Status.CanTransition(model.OrderStatusConfirmed) {
		return nil, &InvalidTransitionError{OrderID: order.ID, From: order.Status, To: model.OrderStatusConfirmed}
	}

	// The same product may appear on several lines; check against the combined quantity.
	merged := make([]model.OrderLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if err := checkQuantity(line); err != nil {
			return nil, err
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	if err := ValidateStock(merged); err != nil {
		return nil, err
	}

	plan := make([]StockDecrement, 0, len(merged))
	for _, line := range merged {
		plan = append(plan, StockDecrement{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].ProductID < plan[j].ProductID })

	return plan, nil
}
