package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener confirms orders requested over the commands topic.
type OrderListener struct {
	consumer   MessageReader
	uc         order.UseCase
	logger     logger.ZapLogger
	retryDelay time.Duration
}

func NewOrderListener(consumer MessageReader, uc order.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer:   consumer,
		uc:         uc,
		logger:     logger,
		retryDelay: time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting Order Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Order Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.retryDelay):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var cmd order.ConfirmRequestCommand
	if err := json.Unmarshal(value, &cmd); err != nil {
		l.logger.Error("Failed to unmarshal command", zap.Error(err))
		return
	}

	if cmd.EventType != order.CommandOrderConfirmRequest {
		return
	}
	if cmd.Payload.OrderID == "" {
		l.logger.Warn("Confirm command without order id", zap.String("event_id", cmd.EventID))
		return
	}

	l.logger.Info("Processing OrderConfirmRequested command",
		zap.String("order_id", cmd.Payload.OrderID),
		zap.String("requested_by", cmd.Payload.RequestedBy),
	)

	// Commands come from trusted back-office services.
	res, err := l.uc.ConfirmOrder(ctx, &dto.ConfirmOrderInput{
		Caller:  dto.Caller{ClientID: cmd.Payload.RequestedBy, IsStaff: true},
		OrderID: cmd.Payload.OrderID,
	})
	if err != nil {
		var shortage *pricing.StockShortageError
		if errors.As(err, &shortage) {
			l.logger.Warn("Order not confirmed, stock shortage",
				zap.String("order_id", cmd.Payload.OrderID),
				zap.String("product_id", shortage.ProductID),
				zap.Int("requested", shortage.Requested),
				zap.Int("available", shortage.Available),
			)
			return
		}
		l.logger.Error("Failed to confirm order",
			zap.String("order_id", cmd.Payload.OrderID),
			zap.Error(err),
		)
		return
	}

	if !res.Transitioned {
		l.logger.Info("Order already past draft, command ignored",
			zap.String("order_id", cmd.Payload.OrderID),
			zap.String("status", string(res.PreviousStatus)),
		)
	}
}
