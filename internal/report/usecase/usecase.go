package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order"
	orderdto "github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/fekuna/omnipos-order-service/internal/report"
	"github.com/fekuna/omnipos-order-service/internal/report/dto"
	"github.com/fekuna/omnipos-order-service/internal/sales"
	"go.uber.org/zap"
)

type Config struct {
	Location     *time.Location
	DefaultDays  int
	TopCustomers int
}

type reportUseCase struct {
	orders order.Repository
	engine *pricing.Engine
	cfg    Config
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReportUseCase(orders order.Repository, engine *pricing.Engine, cfg Config, log logger.ZapLogger) report.UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 30
	}
	return &reportUseCase{
		orders: orders,
		engine: engine,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
}

func (uc *reportUseCase) SalesReport(ctx context.Context, input *dto.SalesReportInput) (*sales.Report, error) {
	now := uc.now()

	r, err := sales.NewDateRange(input.StartDate, input.EndDate, now, uc.cfg.Location, uc.cfg.DefaultDays)
	if err != nil {
		return nil, err
	}

	from, to := r.From().UTC(), r.To().UTC()
	orders, err := uc.orders.FindAll(ctx, &orderdto.OrderFilters{
		Statuses:    []model.OrderStatus{model.OrderStatusConfirmed, model.OrderStatusShipped},
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	rep := sales.Aggregate(orders, r, clampLogger{engine: uc.engine, logger: uc.logger}, sales.Options{
		TopCustomers: uc.cfg.TopCustomers,
		Now:          now,
	})

	uc.logger.Info("Sales report generated",
		zap.String("start_date", rep.StartDate),
		zap.String("end_date", rep.EndDate),
		zap.Int("orders", rep.TotalOrders),
		zap.String("revenue", rep.TotalRevenue.StringFixed(2)),
	)

	return rep, nil
}

// clampLogger reports orders whose discounts exceed their items total.
type clampLogger struct {
	engine *pricing.Engine
	logger logger.ZapLogger
}

func (p clampLogger) OrderTotal(o *model.Order) pricing.Breakdown {
	b := p.engine.OrderTotal(o)
	if b.Clamped {
		p.logger.Warn("Order discounts exceed items total, subtotal clamped to zero",
			zap.String("order_id", o.ID),
			zap.String("items_total", b.ItemsTotal.String()),
		)
	}
	return b
}
