package service

import (
	"context"
	"net/http"
	"testing"

	"saletech/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeGatewayOrder(t *testing.T, h *harness, qty int) (model.PlaceOrderResult, model.Product) {
	t.Helper()
	p := h.store.addProduct("Laptop X", 100000, 5)
	h.store.addToCart(testUser, p.ID, qty, true)
	res, err := h.orders.PlaceOrder(context.Background(), testUser, orderInput(model.PaymentVNPay))
	require.NoError(t, err)
	return res, p
}

func TestSuccessfulPayment(t *testing.T) {
	h := newHarness()
	placed, p := placeGatewayOrder(t, h, 2)
	orderID := placed.Order.ID

	pay, err := h.processing.ProcessSuccessfulPayment(context.Background(), orderID, placed.Order.TotalPrice, "VNP123")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPaid, pay.Status)
	require.NotNil(t, pay.TransactionID)
	assert.Equal(t, "VNP123", *pay.TransactionID)
	assert.Equal(t, model.OrderPending, h.store.orders[orderID].Status)
	assert.Equal(t, 0, h.store.cartSize(testUser))
	assert.Equal(t, 3, h.store.products[p.ID].Quantity)

	last := h.publisher.events[len(h.publisher.events)-1]
	assert.Equal(t, model.PaymentPaid, last.PaymentStatus)
}

func TestSuccessfulPaymentTwiceConflicts(t *testing.T) {
	h := newHarness()
	placed, _ := placeGatewayOrder(t, h, 1)
	orderID := placed.Order.ID

	_, err := h.processing.ProcessSuccessfulPayment(context.Background(), orderID, placed.Order.TotalPrice, "VNP1")
	require.NoError(t, err)
	_, err = h.processing.ProcessSuccessfulPayment(context.Background(), orderID, placed.Order.TotalPrice, "VNP2")
	assertAppError(t, err, http.StatusConflict, "already processed")

	pay := h.store.paymentOf(orderID)
	assert.Equal(t, model.PaymentPaid, pay.Status)
	assert.Equal(t, "VNP1", *pay.TransactionID)
}

func TestSuccessfulPaymentAmountMismatch(t *testing.T) {
	h := newHarness()
	placed, p := placeGatewayOrder(t, h, 2)
	orderID := placed.Order.ID

	_, err := h.processing.ProcessSuccessfulPayment(context.Background(), orderID, placed.Order.TotalPrice-1, "VNP1")
	assertAppError(t, err, http.StatusConflict, "does not match")
	assert.ErrorIs(t, err, ErrAmountMismatch)

	assert.Equal(t, model.PaymentPending, h.store.paymentOf(orderID).Status)
	assert.Equal(t, model.OrderPending, h.store.orders[orderID].Status)
	assert.Equal(t, 3, h.store.products[p.ID].Quantity)
	assert.Equal(t, 1, h.store.cartSize(testUser))
}

func TestSuccessfulPaymentUnknownOrder(t *testing.T) {
	h := newHarness()
	_, err := h.processing.ProcessSuccessfulPayment(context.Background(), 9999, 1000, "VNP1")
	assertAppError(t, err, http.StatusNotFound, "Order not found")
}

func TestSuccessAfterExpiryIsRejected(t *testing.T) {
	h := newHarness()
	placed, _ := placeGatewayOrder(t, h, 1)
	orderID := placed.Order.ID

	_, err := h.processing.ProcessFailedPayment(context.Background(), orderID, "")
	require.NoError(t, err)
	_, err = h.processing.ProcessSuccessfulPayment(context.Background(), orderID, placed.Order.TotalPrice, "VNP1")
	assertAppError(t, err, http.StatusConflict, "not pending")
	assert.Equal(t, model.PaymentFailed, h.store.paymentOf(orderID).Status)
}

func TestFailedPayment(t *testing.T) {
	h := newHarness()
	placed, p := placeGatewayOrder(t, h, 2)
	orderID := placed.Order.ID

	pay, err := h.processing.ProcessFailedPayment(context.Background(), orderID, "VNP9")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentFailed, pay.Status)
	assert.Equal(t, model.OrderCancelled, h.store.orders[orderID].Status)
	assert.Equal(t, 5, h.store.products[p.ID].Quantity)
	assert.Equal(t, 0, h.store.products[p.ID].QuantitySold)
}

func TestFailedPaymentIsNotAppliedTwice(t *testing.T) {
	h := newHarness()
	placed, p := placeGatewayOrder(t, h, 2)
	orderID := placed.Order.ID

	_, err := h.processing.ProcessFailedPayment(context.Background(), orderID, "")
	require.NoError(t, err)
	_, err = h.processing.ProcessFailedPayment(context.Background(), orderID, "")
	assertAppError(t, err, http.StatusConflict, "FAILED")

	assert.Equal(t, 5, h.store.products[p.ID].Quantity)
	assert.Equal(t, 0, h.store.products[p.ID].QuantitySold)
}

func TestFailedPaymentOnPaidIsRejected(t *testing.T) {
	h := newHarness()
	placed, p := placeGatewayOrder(t, h, 2)
	orderID := placed.Order.ID
	_, err := h.processing.ProcessSuccessfulPayment(context.Background(), orderID, placed.Order.TotalPrice, "VNP1")
	require.NoError(t, err)

	_, err = h.processing.ProcessFailedPayment(context.Background(), orderID, "")
	assertAppError(t, err, http.StatusConflict, "PAID")

	assert.Equal(t, model.PaymentPaid, h.store.paymentOf(orderID).Status)
	assert.Equal(t, model.OrderPending, h.store.orders[orderID].Status)
	assert.Equal(t, 3, h.store.products[p.ID].Quantity)
}

func TestFailedPaymentLeavesNonPendingOrderStatus(t *testing.T) {
	h := newHarness()
	placed, _ := placeGatewayOrder(t, h, 1)
	orderID := placed.Order.ID
	o := h.store.orders[orderID]
	o.Status = model.OrderRejected
	h.store.orders[orderID] = o

	_, err := h.processing.ProcessFailedPayment(context.Background(), orderID, "")
	require.NoError(t, err)
	assert.Equal(t, model.OrderRejected, h.store.orders[orderID].Status)
	assert.Equal(t, model.PaymentFailed, h.store.paymentOf(orderID).Status)
}

func TestPlaceThenCancelRestoresStock(t *testing.T) {
	h := newHarness()
	placed, p := placeGatewayOrder(t, h, 2)
	before := model.Product{Quantity: 5, QuantitySold: 0}

	_, err := h.orders.CancelOrder(context.Background(), testUser, placed.Order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, before.Quantity, h.store.products[p.ID].Quantity)
	assert.Equal(t, before.QuantitySold, h.store.products[p.ID].QuantitySold)
}
