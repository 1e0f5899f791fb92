package order

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/order/dto"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrForbidden     = errors.New("order belongs to another client")
	ErrLockBusy      = errors.New("system busy, please try again later (lock)")
	ErrInvalidStatus = errors.New("unknown order status")
)

type UseCase interface {
	GetOrder(ctx context.Context, input *dto.GetOrderInput) (*dto.OrderView, error)
	ListOrders(ctx context.Context, input *dto.ListOrdersInput) ([]dto.OrderView, error)
	ConfirmOrder(ctx context.Context, input *dto.ConfirmOrderInput) (*dto.ConfirmResult, error)
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, v interface{}) error
}
