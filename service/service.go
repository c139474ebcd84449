package service

import (
	"context"
	"time"

	"saletech/logger"
	"saletech/model"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type PaymentGateway interface {
	BuildPaymentURL(req model.PaymentRequest) (string, error)
	Refund(ctx context.Context, req model.RefundRequest) (model.RefundResult, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event model.OrderEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(context.Context, model.OrderEvent) error { return nil }

func publish(ctx context.Context, p EventPublisher, event model.OrderEvent) {
	if p == nil {
		return
	}
	if err := p.PublishOrderEvent(ctx, event); err != nil {
		logger.Warn("publish order event failed", "orderId", event.OrderID, "error", err)
	}
}
