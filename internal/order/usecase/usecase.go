package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/fekuna/omnipos-order-service/internal/product"
	"github.com/fekuna/omnipos-order-service/internal/sales"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LockConfig struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

type orderUseCase struct {
	repo      order.Repository
	engine    *pricing.Engine
	locker    order.Locker
	publisher order.EventPublisher
	indexer   product.UseCase
	lockCfg   LockConfig
	location  *time.Location
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewOrderUseCase wires the order use case. locker, publisher and indexer may be nil, in
// which case the matching side effect is skipped.
func NewOrderUseCase(
	repo order.Repository,
	engine *pricing.Engine,
	locker order.Locker,
	publisher order.EventPublisher,
	indexer product.UseCase,
	lockCfg LockConfig,
	location *time.Location,
	log logger.ZapLogger,
) order.UseCase {
	if location == nil {
		location = time.UTC
	}
	return &orderUseCase{
		repo:      repo,
		engine:    engine,
		locker:    locker,
		publisher: publisher,
		indexer:   indexer,
		lockCfg:   lockCfg,
		location:  location,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, input *dto.GetOrderInput) (*dto.OrderView, error) {
	o, err := uc.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	if !canAccess(input.Caller, o) {
		return nil, order.ErrForbidden
	}

	view := uc.price(o)
	return &view, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, input *dto.ListOrdersInput) ([]dto.OrderView, error) {
	filters := &dto.OrderFilters{ClientID: input.Caller.ClientID}
	if input.Caller.IsStaff {
		filters.ClientID = input.FilterClientID
	}

	if input.Status != "" {
		status := model.OrderStatus(strings.ToLower(input.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w %q", order.ErrInvalidStatus, input.Status)
		}
		filters.Statuses = []model.OrderStatus{status}
	}

	if input.DateFrom != "" {
		from, err := time.ParseInLocation(sales.DateLayout, input.DateFrom, uc.location)
		if err != nil {
			return nil, &sales.InvalidDateRangeError{Reason: fmt.Sprintf("date_from %q", input.DateFrom)}
		}
		filters.CreatedFrom = &from
	}
	if input.DateTo != "" {
		to, err := time.ParseInLocation(sales.DateLayout, input.DateTo, uc.location)
		if err != nil {
			return nil, &sales.InvalidDateRangeError{Reason: fmt.Sprintf("date_to %q", input.DateTo)}
		}
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filters.CreatedTo = &end
	}
	if filters.CreatedFrom != nil && filters.CreatedTo != nil && filters.CreatedFrom.After(*filters.CreatedTo) {
		return nil, &sales.InvalidDateRangeError{Reason: "date_from is after date_to"}
	}

	orders, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	views := make([]dto.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, uc.price(&orders[i]))
	}
	return views, nil
}

// ConfirmOrder moves a draft order to confirmed and takes its lines out of stock in one
// transaction. Orders that are not drafts are returned unchanged with Transitioned false.
func (uc *orderUseCase) ConfirmOrder(ctx context.Context, input *dto.ConfirmOrderInput) (*dto.ConfirmResult, error) {
	release, err := uc.acquireLock(ctx, "lock:order:confirm:"+input.OrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		result *dto.ConfirmResult
		plan   []pricing.StockDecrement
	)

	err = uc.repo.Transact(ctx, func(tx order.TxRepository) error {
		o, err := tx.LockOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return order.ErrOrderNotFound
		}
		if !canAccess(input.Caller, o) {
			return order.ErrForbidden
		}

		lines, err := tx.LockLines(ctx, o.ID)
		if err != nil {
			return err
		}
		o.Lines = lines
		result = &dto.ConfirmResult{PreviousStatus: o.Status}

		plan, err = pricing.PlanConfirmation(o, lines)
		var transition *pricing.InvalidTransitionError
		if errors.As(err, &transition) {
			result.OrderView = uc.price(o)
			return nil
		}
		if err != nil {
			return err
		}

		for _, d := range plan {
			if err := tx.DecrementStock(ctx, d.ProductID, d.Quantity); err != nil {
				return err
			}
		}
		if err := tx.UpdateStatus(ctx, o.ID, model.OrderStatusConfirmed); err != nil {
			return err
		}

		o.Status = model.OrderStatusConfirmed
		result.Transitioned = true
		result.OrderView = uc.price(o)
		return nil
	})
	if err != nil {
		var shortage *pricing.StockShortageError
		if errors.As(err, &shortage) {
			uc.logger.Info("order confirmation rejected",
				zap.String("order_id", input.OrderID),
				zap.String("product_id", shortage.ProductID),
				zap.Int("requested", shortage.Requested),
				zap.Int("available", shortage.Available),
			)
		}
		return nil, err
	}

	if !result.Transitioned {
		uc.logger.Debug("confirm on non-draft order ignored",
			zap.String("order_id", input.OrderID),
			zap.String("status", string(result.PreviousStatus)),
		)
		return result, nil
	}

	uc.logger.Info("order confirmed",
		zap.String("order_id", result.ID),
		zap.String("total", result.Total.StringFixed(2)),
	)

	uc.publishConfirmed(ctx, result)
	uc.syncStock(ctx, result.Lines, plan)

	return result, nil
}

func (uc *orderUseCase) price(o *model.Order) dto.OrderView {
	b := uc.engine.OrderTotal(o)
	if b.Clamped {
		uc.logger.Warn("order discounts exceed items total, subtotal clamped to zero",
			zap.String("order_id", o.ID),
			zap.String("items_total", b.ItemsTotal.String()),
			zap.String("client_discount", o.ClientDiscount.String()),
		)
	}
	return dto.OrderView{Order: o, Pricing: b, Total: b.Total}
}

func (uc *orderUseCase) acquireLock(ctx context.Context, key string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	value := uuid.New().String()
	retries := uc.lockCfg.Retries
	if retries <= 0 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, uc.lockCfg.TTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
					uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(uc.lockCfg.RetryDelay):
		}
	}

	return nil, order.ErrLockBusy
}

func (uc *orderUseCase) publishConfirmed(ctx context.Context, result *dto.ConfirmResult) {
	if uc.publisher == nil {
		return
	}

	items := make([]order.OrderItemPayload, 0, len(result.Lines))
	for _, l := range result.Lines {
		items = append(items, order.OrderItemPayload{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	event := order.OrderConfirmedEvent{
		EventID:   uuid.New().String(),
		EventType: order.EventOrderConfirmed,
		Payload: order.OrderConfirmedPayload{
			ID:       result.ID,
			ClientID: result.ClientID,
			Total:    result.Total,
			Items:    items,
		},
		Timestamp: uc.now().UTC(),
	}

	if err := uc.publisher.Publish(ctx, result.ID, event); err != nil {
		uc.logger.Error("failed to publish order confirmed event", zap.String("order_id", result.ID), zap.Error(err))
	}
}

// syncStock pushes post-confirmation stock levels to the search index.
func (uc *orderUseCase) syncStock(ctx context.Context, lines []model.OrderLine, plan []pricing.StockDecrement) {
	if uc.indexer == nil {
		return
	}

	taken := make(map[string]int, len(plan))
	for _, d := range plan {
		taken[d.ProductID] = d.Quantity
	}

	products := make([]model.Product, 0, len(taken))
	seen := make(map[string]bool, len(taken))
	for _, l := range lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		p := l.Product
		p.StockQuantity -= taken[l.ProductID]
		products = append(products, p)
	}

	if err := uc.indexer.SyncStock(ctx, products); err != nil {
		uc.logger.Error("failed to sync product stock to search", zap.Error(err))
	}
}

func canAccess(c dto.Caller, o *model.Order) bool {
	return c.IsStaff || c.ClientID == o.ClientID
}
