package order

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
)

type Repository interface {
	// FindByID returns the order with its lines, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error)

	// Transact runs fn in one database transaction. An error from fn rolls everything back.
	Transact(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository is the transaction-scoped view used by the confirmation path.
type TxRepository interface {
	// LockOrder reads and row-locks the order, or returns nil when it does not exist.
	LockOrder(ctx context.Context, id string) (*model.Order, error)
	// LockLines reads the order lines and row-locks their products, in product id order.
	LockLines(ctx context.Context, orderID string) ([]model.OrderLine, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}
