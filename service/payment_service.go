package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saletech/model"
	"saletech/repository"
	"saletech/utils"
)

// PaymentProcessor creates the Payment record for one payment method.
type PaymentProcessor interface {
	Method() model.PaymentMethod
	CreatePayment(ctx context.Context, payments repository.PaymentRepository, order model.Order, params model.PaymentParams) (model.Payment, error)
}

type CashProcessor struct {
	clock Clock
}

func NewCashProcessor(clock Clock) *CashProcessor {
	return &CashProcessor{clock: clock}
}

func (p *CashProcessor) Method() model.PaymentMethod { return model.PaymentCash }

// CreatePayment records a pay-on-delivery payment. It never expires.
func (p *CashProcessor) CreatePayment(ctx context.Context, payments repository.PaymentRepository, order model.Order, _ model.PaymentParams) (model.Payment, error) {
	now := p.clock.Now()
	payment := model.Payment{
		DTO:      model.DTO{CreatedAt: now, UpdatedAt: now},
		OrderID:  order.ID,
		Provider: model.PaymentCash,
		Status:   model.PaymentPending,
		Amount:   order.TotalPrice,
	}
	if err := payments.Create(ctx, &payment); err != nil {
		return model.Payment{}, fmt.Errorf("create cash payment: %w", err)
	}
	return payment, nil
}

var ErrMissingTxnRef = errors.New("gateway payment requires a transaction reference")

type VNPayProcessor struct {
	clock   Clock
	timeout time.Duration
}

func NewVNPayProcessor(clock Clock, timeout time.Duration) *VNPayProcessor {
	return &VNPayProcessor{clock: clock, timeout: timeout}
}

func (p *VNPayProcessor) Method() model.PaymentMethod { return model.PaymentVNPay }

func (p *VNPayProcessor) CreatePayment(ctx context.Context, payments repository.PaymentRepository, order model.Order, params model.PaymentParams) (model.Payment, error) {
	if params.TxnRef == "" {
		return model.Payment{}, ErrMissingTxnRef
	}
	now := p.clock.Now()
	expiresAt := now.Add(p.timeout)
	payment := model.Payment{
		DTO:       model.DTO{CreatedAt: now, UpdatedAt: now},
		OrderID:   order.ID,
		Provider:  model.PaymentVNPay,
		Status:    model.PaymentPending,
		Amount:    order.TotalPrice,
		TxnRef:    utils.Ptr(params.TxnRef),
		ExpiresAt: &expiresAt,
	}
	if params.PaymentURL != "" {
		payment.PaymentURL = utils.Ptr(params.PaymentURL)
	}
	if err := payments.Create(ctx, &payment); err != nil {
		return model.Payment{}, fmt.Errorf("create vnpay payment: %w", err)
	}
	return payment, nil
}

// PaymentService dispatches payment creation to the processor registered
// for the order's payment method.
type PaymentService struct {
	processors map[model.PaymentMethod]PaymentProcessor
}

func NewPaymentService(processors ...PaymentProcessor) *PaymentService {
	m := make(map[model.PaymentMethod]PaymentProcessor, len(processors))
	for _, p := range processors {
		m[p.Method()] = p
	}
	return &PaymentService{processors: m}
}

func (s *PaymentService) Supports(method model.PaymentMethod) bool {
	_, ok := s.processors[method]
	return ok
}

func (s *PaymentService) CreatePayment(ctx context.Context, payments repository.PaymentRepository, order model.Order, params model.PaymentParams) (model.Payment, error) {
	p, ok := s.processors[order.PaymentMethod]
	if !ok {
		return model.Payment{}, fmt.Errorf("%w: %s", ErrProcessorNotRegistered, order.PaymentMethod)
	}
	return p.CreatePayment(ctx, payments, order, params)
}

// SelectProcessors keeps the processors whose method is enabled. An enabled
// method without an implementation is reported as a configuration error.
func SelectProcessors(enabled []string, available ...PaymentProcessor) ([]PaymentProcessor, error) {
	byMethod := make(map[model.PaymentMethod]PaymentProcessor, len(available))
	for _, p := range available {
		byMethod[p.Method()] = p
	}
	selected := make([]PaymentProcessor, 0, len(enabled))
	for _, m := range enabled {
		p, ok := byMethod[model.PaymentMethod(m)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProcessorNotRegistered, m)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
