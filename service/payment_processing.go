package service

import (
	"context"
	"errors"
	"fmt"

	"saletech/constants"
	"saletech/logger"
	"saletech/model"
	"saletech/repository"
)

// PaymentProcessingService applies gateway outcomes to payments and orders.
// Both entry points are safe to call more than once for the same order: a
// repeated call is rejected with a conflict and changes nothing.
type PaymentProcessingService struct {
	tx        repository.TransactionManager
	publisher EventPublisher
	clock     Clock
}

func NewPaymentProcessingService(tx repository.TransactionManager, publisher EventPublisher, clock Clock) *PaymentProcessingService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &PaymentProcessingService{tx: tx, publisher: publisher, clock: clock}
}

// load locks the payment first and then reads the order, so the order
// status seen here cannot change until the transaction ends. A missing
// payment is returned as nil.
func load(ctx context.Context, r repository.TxRepos, orderID uint) (model.Order, *model.Payment, error) {
	payment, err := r.Payments().FindByOrderID(ctx, orderID)
	missing := errors.Is(err, repository.ErrNotFound)
	if err != nil && !missing {
		return model.Order{}, nil, err
	}
	order, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Order{}, nil, NotFound(constants.ORDER_NOT_FOUND)
	}
	if err != nil {
		return model.Order{}, nil, err
	}
	if missing {
		return order, nil, nil
	}
	return order, &payment, nil
}

func (s *PaymentProcessingService) ProcessSuccessfulPayment(ctx context.Context, orderID uint, amount int64, transactionID string) (model.Payment, error) {
	var payment model.Payment
	var userID uint
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		order, p, err := load(ctx, r, orderID)
		if err != nil {
			return err
		}
		if amount != order.TotalPrice {
			return ErrAmountMismatch
		}
		if p == nil {
			return NotFound(constants.PAYMENT_NOT_FOUND)
		}
		switch {
		case p.Status == model.PaymentPaid:
			return Conflict(constants.PAYMENT_ALREADY_PAID)
		case p.Status != model.PaymentPending:
			return Conflict(constants.PAYMENT_NOT_PENDING)
		case order.Status != model.OrderPending:
			return Conflict(constants.ORDER_NOT_PENDING)
		}

		p.Status = model.PaymentPaid
		if transactionID != "" {
			p.TransactionID = &transactionID
		}
		p.UpdatedAt = s.clock.Now()
		if err := r.Payments().Update(ctx, p); err != nil {
			return fmt.Errorf("mark payment paid: %w", err)
		}
		if err := r.Carts().ClearByUser(ctx, order.UserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		payment, userID = *p, order.UserID
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}

	// The order itself stays PENDING until it is approved.
	logger.InfoContext(ctx, "payment confirmed", "orderId", orderID, "userId", userID, "transactionId", transactionID)
	publish(ctx, s.publisher, model.OrderEvent{OrderID: orderID, OrderStatus: model.OrderPending, PaymentStatus: model.PaymentPaid})
	return payment, nil
}

func (s *PaymentProcessingService) ProcessFailedPayment(ctx context.Context, orderID uint, transactionID string) (model.Payment, error) {
	var payment model.Payment
	orderStatus := model.OrderPending
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		order, p, err := load(ctx, r, orderID)
		if err != nil {
			return err
		}
		if p == nil {
			return NotFound(constants.PAYMENT_NOT_FOUND)
		}
		if p.Status != model.PaymentPending {
			return Conflict(fmt.Sprintf("Payment already %s", p.Status))
		}

		if err := restoreStock(ctx, r.Products(), order.OrderDetails); err != nil {
			return err
		}
		p.Status = model.PaymentFailed
		if transactionID != "" {
			p.TransactionID = &transactionID
		}
		p.UpdatedAt = s.clock.Now()
		if err := r.Payments().Update(ctx, p); err != nil {
			return fmt.Errorf("mark payment failed: %w", err)
		}

		orderStatus = order.Status
		if order.Status == model.OrderPending {
			if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderCancelled); err != nil {
				return fmt.Errorf("cancel order: %w", err)
			}
			orderStatus = model.OrderCancelled
		}
		payment = *p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}

	logger.InfoContext(ctx, "payment failed", "orderId", orderID, "orderStatus", orderStatus)
	publish(ctx, s.publisher, model.OrderEvent{OrderID: orderID, OrderStatus: orderStatus, PaymentStatus: model.PaymentFailed})
	return payment, nil
}
