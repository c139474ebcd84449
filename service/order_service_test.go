package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"saletech/model"
	"saletech/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAppError(t *testing.T, err error, status int, contains string) {
	t.Helper()
	appErr, ok := AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Contains(t, appErr.Message, contains)
}

func TestPlaceOrderCash(t *testing.T) {
	h := newHarness()
	laptop := h.store.addProduct("Laptop X", 100000, 5)
	mouse := h.store.addProduct("Mouse", 50000, 10)
	kept := h.store.addProduct("Keyboard", 70000, 3)
	h.store.addToCart(testUser, laptop.ID, 2, true)
	h.store.addToCart(testUser, mouse.ID, 1, true)
	h.store.addToCart(testUser, kept.ID, 1, false)

	res, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
	require.NoError(t, err)

	order := res.Order
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, "ORD-TEST0001", order.PublicCode)
	assert.Equal(t, "Nguyen Van A", order.CustomerName)
	assert.Equal(t, "Hà Nội", order.Province)
	require.Len(t, order.OrderDetails, 2)

	var lines int64
	for _, d := range order.OrderDetails {
		lines += d.Price * int64(d.Quantity)
	}
	assert.Equal(t, int64(250000), lines)
	assert.Equal(t, int64(20000), order.DeliveryFee)
	assert.Equal(t, lines+order.DeliveryFee, order.TotalPrice)

	assert.Equal(t, 3, h.store.products[laptop.ID].Quantity)
	assert.Equal(t, 2, h.store.products[laptop.ID].QuantitySold)
	assert.Equal(t, 9, h.store.products[mouse.ID].Quantity)

	assert.Equal(t, model.PaymentPending, res.Payment.Status)
	assert.Equal(t, model.PaymentCash, res.Payment.Provider)
	assert.Nil(t, res.Payment.ExpiresAt)
	assert.Nil(t, res.Payment.TransactionID)
	assert.Equal(t, order.TotalPrice, res.Payment.Amount)
	assert.Empty(t, res.PaymentURL)

	// only the unselected item is left in the cart
	assert.Equal(t, 1, h.store.cartSize(testUser))
}

func TestPlaceOrderGatewayKeepsCart(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 300000, 5)
	h.store.addToCart(testUser, p.ID, 2, true)

	res, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentVNPay))
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Order.DeliveryFee, "free shipping over threshold")
	assert.Equal(t, int64(600000), res.Order.TotalPrice)
	require.NotNil(t, res.Payment.ExpiresAt)
	assert.Equal(t, testNow.Add(15*time.Minute), *res.Payment.ExpiresAt)
	require.NotNil(t, res.Payment.TxnRef)
	assert.Equal(t, "TXN0001", *res.Payment.TxnRef)
	assert.Contains(t, res.PaymentURL, "ref=TXN0001")
	assert.Equal(t, 3, h.store.products[p.ID].Quantity)
	assert.Equal(t, 1, h.store.cartSize(testUser))
}

func TestPlaceOrderRejections(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		h := newHarness()
		p := h.store.addProduct("Laptop X", 100000, 5)
		h.store.addToCart(testUser, p.ID, 1, false)

		_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
		assertAppError(t, err, http.StatusBadRequest, "No items selected")
	})

	t.Run("inactive product", func(t *testing.T) {
		h := newHarness()
		p := h.store.addProduct("Old Phone", 100000, 5)
		p.IsActive = false
		h.store.products[p.ID] = p
		h.store.addToCart(testUser, p.ID, 1, true)

		_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
		assertAppError(t, err, http.StatusBadRequest, "Old Phone")
	})

	t.Run("insufficient stock reports remaining", func(t *testing.T) {
		h := newHarness()
		ok := h.store.addProduct("Mouse", 50000, 10)
		short := h.store.addProduct("Laptop X", 100000, 1)
		h.store.addToCart(testUser, ok.ID, 1, true)
		h.store.addToCart(testUser, short.ID, 2, true)

		_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
		assertAppError(t, err, http.StatusBadRequest, "only 1 left")
		assert.Equal(t, 10, h.store.products[ok.ID].Quantity)
		assert.Empty(t, h.store.orders)
		assert.Equal(t, 2, h.store.cartSize(testUser))
	})
}

// racingTx hands PlaceOrder a product repository where another buyer takes
// stock between the availability read and the conditional decrement.
type racingTx struct {
	store *memStore
	taken int
}

func (tx *racingTx) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return tx.store.WithinTx(ctx, func(r repository.TxRepos) error {
		return fn(racingRepos{TxRepos: r, products: racingProducts{ProductRepository: r.Products(), taken: tx.taken}})
	})
}

type racingRepos struct {
	repository.TxRepos
	products repository.ProductRepository
}

func (r racingRepos) Products() repository.ProductRepository { return r.products }

type racingProducts struct {
	repository.ProductRepository
	taken int
}

func (p racingProducts) DecreaseStockIfEnough(ctx context.Context, id uint, qty int) (bool, error) {
	if ok, err := p.ProductRepository.DecreaseStockIfEnough(ctx, id, p.taken); !ok || err != nil {
		return ok, err
	}
	return p.ProductRepository.DecreaseStockIfEnough(ctx, id, qty)
}

func TestPlaceOrderLosesStockRace(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 2, true)
	h.orders.tx = &racingTx{store: h.store, taken: 4}

	_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
	assertAppError(t, err, http.StatusBadRequest, `Not enough stock for "Laptop X": only 1 left`)

	// the rollback also undoes the competing take, since it ran in the same tx
	assert.Equal(t, 5, h.store.products[p.ID].Quantity)
	assert.Equal(t, 0, h.store.products[p.ID].QuantitySold)
	assert.Empty(t, h.store.orders)
	assert.Empty(t, h.store.payments)
	assert.Equal(t, 1, h.store.cartSize(testUser))
}

func TestPlaceOrderRollsBackOnPaymentFailure(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 2, true)
	h.store.failPaymentCreate = errors.New("db down")

	_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
	require.Error(t, err)
	_, isAppErr := AsAppError(err)
	assert.False(t, isAppErr)

	assert.Empty(t, h.store.orders)
	assert.Equal(t, 5, h.store.products[p.ID].Quantity)
	assert.Equal(t, 0, h.store.products[p.ID].QuantitySold)
	assert.Equal(t, 1, h.store.cartSize(testUser))
}

func TestPlaceOrderUnregisteredMethod(t *testing.T) {
	h := newHarness()
	h.orders.payments = NewPaymentService(NewCashProcessor(h.clock))
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 1, true)

	_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentVNPay))
	assert.ErrorIs(t, err, ErrProcessorNotRegistered)
	assert.Equal(t, 5, h.store.products[p.ID].Quantity)
}

func TestCancelPendingOrderRestoresStock(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 2, true)
	placed, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentVNPay))
	require.NoError(t, err)

	res, err := h.orders.CancelOrder(context.Background(), testUser, placed.Order.ID, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, model.OrderCancelled, res.Order.Status)
	assert.Equal(t, model.PaymentFailed, res.PaymentStatus)
	assert.Equal(t, model.PaymentFailed, h.store.paymentOf(placed.Order.ID).Status)
	assert.Equal(t, 5, h.store.products[p.ID].Quantity)
	assert.Equal(t, 0, h.store.products[p.ID].QuantitySold)
	assert.Empty(t, h.gateway.refunds)
	require.NotEmpty(t, h.publisher.events)
	assert.Equal(t, model.OrderCancelled, h.publisher.events[len(h.publisher.events)-1].OrderStatus)
}

func TestCancelPaidGatewayOrderRefunds(t *testing.T) {
	cases := []struct {
		name   string
		result model.RefundResult
		err    error
		want   model.PaymentStatus
	}{
		{"refund accepted", model.RefundResult{ResponseCode: "00"}, nil, model.PaymentRefund},
		{"refund rejected", model.RefundResult{ResponseCode: "94", Message: "duplicate"}, nil, model.PaymentRefundFailed},
		{"gateway unreachable", model.RefundResult{ResponseCode: "99"}, errors.New("timeout"), model.PaymentRefundFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			p := h.store.addProduct("Laptop X", 100000, 5)
			h.store.addToCart(testUser, p.ID, 2, true)
			placed, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentVNPay))
			require.NoError(t, err)
			_, err = h.processing.ProcessSuccessfulPayment(context.Background(), placed.Order.ID, placed.Order.TotalPrice, "VNP123")
			require.NoError(t, err)

			h.gateway.refundResult, h.gateway.refundErr = tc.result, tc.err
			res, err := h.orders.CancelOrder(context.Background(), testUser, placed.Order.ID, "10.0.0.1")
			require.NoError(t, err)

			assert.Equal(t, tc.want, res.PaymentStatus)
			assert.Equal(t, tc.want, h.store.paymentOf(placed.Order.ID).Status)
			assert.Equal(t, model.OrderCancelled, h.store.orders[placed.Order.ID].Status)
			assert.Equal(t, 5, h.store.products[p.ID].Quantity)

			require.Len(t, h.gateway.refunds, 1)
			req := h.gateway.refunds[0]
			assert.Equal(t, "TXN0001", req.TxnRef)
			assert.Equal(t, "VNP123", req.TransactionNo)
			assert.Equal(t, placed.Order.TotalPrice, req.Amount)
		})
	}
}

func TestCancelPaidCashOrder(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 1, true)
	placed, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
	require.NoError(t, err)
	pay := h.store.paymentOf(placed.Order.ID)
	pay.Status = model.PaymentPaid
	h.store.payments[pay.ID] = pay

	res, err := h.orders.CancelOrder(context.Background(), testUser, placed.Order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefund, res.PaymentStatus)
	assert.Empty(t, h.gateway.refunds)
}

func TestCancelRejectsNonPendingOrder(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 2, true)
	placed, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
	require.NoError(t, err)
	o := h.store.orders[placed.Order.ID]
	o.Status = model.OrderApproved
	h.store.orders[o.ID] = o

	_, err = h.orders.CancelOrder(context.Background(), testUser, placed.Order.ID, "")
	assertAppError(t, err, http.StatusBadRequest, "APPROVED")

	assert.Equal(t, model.OrderApproved, h.store.orders[o.ID].Status)
	assert.Equal(t, model.PaymentPending, h.store.paymentOf(o.ID).Status)
	assert.Equal(t, 3, h.store.products[p.ID].Quantity)

	_, err = h.orders.CancelOrder(context.Background(), testUser, placed.Order.ID+999, "")
	assertAppError(t, err, http.StatusNotFound, "Order not found")
}

func TestCancelIsScopedToOwner(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, 1, true)
	placed, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
	require.NoError(t, err)

	_, err = h.orders.CancelOrder(context.Background(), otherUser, placed.Order.ID, "")
	assertAppError(t, err, http.StatusNotFound, "Order not found")
	assert.Equal(t, model.OrderPending, h.store.orders[placed.Order.ID].Status)
}

func TestListAndGetOrders(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Laptop X", 100000, 10)
	for i := 0; i < 2; i++ {
		h.store.addToCart(testUser, p.ID, 1, true)
		_, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentCash))
		require.NoError(t, err)
	}
	all, err := h.orders.ListOrders(context.Background(), testUser, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = h.orders.CancelOrder(context.Background(), testUser, all[0].ID, "")
	require.NoError(t, err)

	cancelled, err := h.orders.ListOrders(context.Background(), testUser, "cancelled")
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, all[0].ID, cancelled[0].ID)

	_, err = h.orders.ListOrders(context.Background(), testUser, "SHIPPED")
	assertAppError(t, err, http.StatusBadRequest, "SHIPPED")

	got, err := h.orders.GetOrder(context.Background(), testUser, all[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Payment)
	assert.Len(t, got.OrderDetails, 1)

	_, err = h.orders.GetOrder(context.Background(), otherUser, all[1].ID)
	assertAppError(t, err, http.StatusNotFound, "Order not found")
}
