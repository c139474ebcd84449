package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saletech/constants"
	"saletech/helper"
	"saletech/logger"
	"saletech/model"
	"saletech/repository"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderService struct {
	tx        repository.TransactionManager
	orders    repository.OrderRepository
	payments  *PaymentService
	gateway   PaymentGateway
	publisher EventPublisher
	clock     Clock

	newTxnRef    func() string
	newOrderCode func() string
}

func NewOrderService(
	tx repository.TransactionManager,
	orders repository.OrderRepository,
	payments *PaymentService,
	gateway PaymentGateway,
	publisher EventPublisher,
	clock Clock,
) *OrderService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &OrderService{
		tx:           tx,
		orders:       orders,
		payments:     payments,
		gateway:      gateway,
		publisher:    publisher,
		clock:        clock,
		newTxnRef:    newTxnRef,
		newOrderCode: newOrderCode,
	}
}

func newTxnRef() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func newOrderCode() string {
	return constants.ORDER_CODE_PREFIX + strings.ToUpper(uuid.New().String()[:8])
}

// PlaceOrder turns the user's selected cart items into an order and its
// payment in a single transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, in model.PlaceOrderInput) (model.PlaceOrderResult, error) {
	var result model.PlaceOrderResult
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		selected, err := r.Carts().ListSelected(ctx, userID)
		if err != nil {
			return fmt.Errorf("list selected cart items: %w", err)
		}
		if len(selected) == 0 {
			return BadRequest(constants.NO_ITEMS_SELECTED)
		}

		details := make([]model.OrderDetail, 0, len(selected))
		var subtotal int64
		for _, item := range selected {
			product, err := r.Products().FindByID(ctx, item.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				return NotFound(constants.PRODUCT_NOT_FOUND)
			}
			if err != nil {
				return err
			}
			if !product.IsActive {
				return BadRequest("Product %q is no longer available", product.Title)
			}
			if product.Quantity < item.Quantity {
				return BadRequest("Not enough stock for %q: only %d left", product.Title, product.Quantity)
			}
			detail := model.OrderDetail{
				ProductID: product.ID,
				Title:     product.Title,
				Category:  product.Category,
				Price:     product.Price,
				Quantity:  item.Quantity,
			}
			subtotal += detail.LineTotal()
			details = append(details, detail)
		}

		for _, d := range details {
			ok, err := r.Products().DecreaseStockIfEnough(ctx, d.ProductID, d.Quantity)
			if err != nil {
				return fmt.Errorf("decrease stock of product %d: %w", d.ProductID, err)
			}
			if !ok {
				// another order took the stock after our read
				remaining := 0
				if p, err := r.Products().FindByID(ctx, d.ProductID); err == nil {
					remaining = p.Quantity
				}
				return BadRequest("Not enough stock for %q: only %d left", d.Title, remaining)
			}
		}

		var order model.Order
		if err := copier.Copy(&order, &in); err != nil {
			return fmt.Errorf("copy order input: %w", err)
		}
		order.UserID = userID
		order.PublicCode = s.newOrderCode()
		order.Status = model.OrderPending
		order.DeliveryFee = helper.CalculateDeliveryFee(in.Province, subtotal)
		order.TotalPrice = subtotal + order.DeliveryFee
		order.OrderDetails = details
		if err := r.Orders().Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		var params model.PaymentParams
		if order.PaymentMethod == model.PaymentVNPay {
			params.TxnRef = s.newTxnRef()
			paymentURL, err := s.gateway.BuildPaymentURL(model.PaymentRequest{
				OrderID:   order.ID,
				Amount:    order.TotalPrice,
				TxnRef:    params.TxnRef,
				IPAddr:    in.ClientIP,
				CreatedAt: s.clock.Now(),
			})
			if err != nil {
				return fmt.Errorf("build payment url: %w", err)
			}
			params.PaymentURL = paymentURL
		}

		payment, err := s.payments.CreatePayment(ctx, r.Payments(), order, params)
		if err != nil {
			return err
		}

		// Gateway orders keep the cart until the payment is confirmed.
		if order.PaymentMethod == model.PaymentCash {
			if err := r.Carts().DeleteSelected(ctx, userID); err != nil {
				return fmt.Errorf("clear selected cart items: %w", err)
			}
		}

		result = model.PlaceOrderResult{Order: order, Payment: payment, PaymentURL: params.PaymentURL}
		return nil
	})
	if err != nil {
		return model.PlaceOrderResult{}, err
	}

	logger.InfoContext(ctx, "order placed",
		"orderId", result.Order.ID, "userId", userID,
		"method", result.Order.PaymentMethod, "total", result.Order.TotalPrice)
	return result, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, status string) ([]model.Order, error) {
	var filter *model.OrderStatus
	if status != "" {
		st := model.OrderStatus(strings.ToUpper(status))
		if !st.Valid() {
			return nil, BadRequest("Unknown order status %s", status)
		}
		filter = &st
	}
	return s.orders.ListByUser(ctx, userID, filter)
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (model.Order, error) {
	order, err := s.orders.FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Order{}, NotFound(constants.ORDER_NOT_FOUND)
	}
	return order, err
}

// CancelOrder cancels a pending order, refunding a captured gateway payment
// when there is one. A failed refund is recorded but does not stop the
// cancellation.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint, clientIP string) (model.CancelOrderResult, error) {
	var result model.CancelOrderResult
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if _, err := r.Orders().FindByIDForUser(ctx, orderID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NotFound(constants.ORDER_NOT_FOUND)
			}
			return err
		}

		// The payment lock serializes cancellation with callbacks and the
		// timeout sweep, so the order is read again after taking it.
		payment, err := r.Payments().FindByOrderID(ctx, orderID)
		hasPayment := err == nil
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		order, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderPending {
			return BadRequest("Order cannot be cancelled in status %s", order.Status)
		}

		if hasPayment {
			switch payment.Status {
			case model.PaymentPaid:
				if payment.Provider == model.PaymentVNPay {
					payment.Status, result.RefundMessage = s.refund(ctx, order, payment, clientIP)
				} else {
					payment.Status = model.PaymentRefund
				}
			case model.PaymentPending:
				payment.Status = model.PaymentFailed
			}
			payment.UpdatedAt = s.clock.Now()
			if err := r.Payments().Update(ctx, &payment); err != nil {
				return fmt.Errorf("update payment: %w", err)
			}
			result.PaymentStatus = payment.Status
		}

		if err := restoreStock(ctx, r.Products(), order.OrderDetails); err != nil {
			return err
		}
		if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderCancelled); err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		order.Status = model.OrderCancelled
		order.Payment = nil
		result.Order = order
		return nil
	})
	if err != nil {
		return model.CancelOrderResult{}, err
	}

	logger.InfoContext(ctx, "order cancelled", "orderId", orderID, "userId", userID, "paymentStatus", result.PaymentStatus)
	publish(ctx, s.publisher, model.OrderEvent{
		OrderID:       orderID,
		OrderStatus:   model.OrderCancelled,
		PaymentStatus: result.PaymentStatus,
	})
	return result, nil
}

func (s *OrderService) refund(ctx context.Context, order model.Order, payment model.Payment, clientIP string) (model.PaymentStatus, string) {
	req := model.RefundRequest{
		Amount:          payment.Amount,
		OrderInfo:       fmt.Sprintf("Hoan tien don hang #%d", order.ID),
		TransactionDate: payment.CreatedAt,
		CreateBy:        order.Email,
		IPAddr:          clientIP,
	}
	if payment.TxnRef != nil {
		req.TxnRef = *payment.TxnRef
	}
	if payment.TransactionID != nil {
		req.TransactionNo = *payment.TransactionID
	}

	res, err := s.gateway.Refund(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "refund request failed", "orderId", order.ID, "error", err)
		return model.PaymentRefundFailed, res.Message
	}
	if !res.Success() {
		logger.ErrorContext(ctx, "refund rejected by gateway", "orderId", order.ID, "code", res.ResponseCode, "message", res.Message)
		return model.PaymentRefundFailed, res.Message
	}
	return model.PaymentRefund, res.Message
}

func restoreStock(ctx context.Context, products repository.ProductRepository, details []model.OrderDetail) error {
	for _, d := range details {
		if err := products.RestoreStock(ctx, d.ProductID, d.Quantity); err != nil {
			return fmt.Errorf("restore stock of product %d: %w", d.ProductID, err)
		}
	}
	return nil
}
