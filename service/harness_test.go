package service

import (
	"time"

	"saletech/model"
)

const (
	testUser  uint = 7
	otherUser uint = 8
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	store      *memStore
	clock      *fixedClock
	gateway    *fakeGateway
	publisher  *recordingPublisher
	orders     *OrderService
	processing *PaymentProcessingService
	carts      *CartService
}

func newHarness() *harness {
	h := &harness{
		store:     newMemStore(),
		clock:     &fixedClock{t: testNow},
		gateway:   &fakeGateway{refundResult: model.RefundResult{ResponseCode: "00", Message: "ok"}},
		publisher: &recordingPublisher{},
	}
	payments := NewPaymentService(
		NewCashProcessor(h.clock),
		NewVNPayProcessor(h.clock, 15*time.Minute),
	)
	h.orders = NewOrderService(h.store, memOrders{h.store}, payments, h.gateway, h.publisher, h.clock)
	h.orders.newTxnRef = func() string { return "TXN0001" }
	h.orders.newOrderCode = func() string { return "ORD-TEST0001" }
	h.processing = NewPaymentProcessingService(h.store, h.publisher, h.clock)
	h.carts = NewCartService(h.store)
	return h
}

func orderInput(method model.PaymentMethod) model.PlaceOrderInput {
	return model.PlaceOrderInput{
		CustomerName:  "Nguyen Van A",
		Phone:         "0912345678",
		Email:         "a@example.com",
		Address:       "1 Trang Tien",
		Province:      "Hà Nội",
		Description:   "call before delivery",
		PaymentMethod: method,
		ClientIP:      "10.0.0.1",
	}
}
