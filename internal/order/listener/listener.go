package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/order"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// StatusListener feeds OrderStatusRequested commands into the fulfillment
// state machine.
type StatusListener struct {
	consumer MessageReader
	uc       order.UseCase
	logger   logger.ZapLogger
}

func NewStatusListener(consumer MessageReader, uc order.UseCase, logger logger.ZapLogger) *StatusListener {
	return &StatusListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *StatusListener) Start(ctx context.Context) {
	l.logger.Info("Starting order status Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order status Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *StatusListener) processMessage(ctx context.Context, value []byte) {
	var event dto.Event[dto.StatusRequestedPayload]
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != dto.EventOrderStatusRequested {
		return
	}

	p := event.Payload
	l.logger.Info("Processing OrderStatusRequested event",
		zap.String("order_id", p.OrderID),
		zap.String("status", p.Status),
	)

	res, err := l.uc.TransitionStatus(ctx, p.OrderID, p.Status)
	if err != nil {
		// Commands are not redelivered; rejected ones are only logged.
		fields := []zap.Field{
			zap.String("order_id", p.OrderID),
			zap.String("status", p.Status),
			zap.Error(err),
		}
		if apperror.KindOf(err) == apperror.KindInternal {
			l.logger.Error("Failed to apply status command", fields...)
		} else {
			l.logger.Warn("Status command rejected", fields...)
		}
		return
	}

	for _, w := range res.Warnings {
		l.logger.Warn("Status command applied with warning",
			zap.String("order_id", p.OrderID),
			zap.String("code", w.Code),
			zap.String("product_id", w.ProductID),
		)
	}
}
