package scheduler

import (
	"context"
	"time"

	"saletech/logger"
	"saletech/model"
)

type ExpiredPaymentFinder interface {
	FindExpiredPending(ctx context.Context, now time.Time) ([]model.Payment, error)
}

type FailedPaymentProcessor interface {
	ProcessFailedPayment(ctx context.Context, orderID uint, transactionID string) (model.Payment, error)
}

type SweepResult struct {
	Expired   int
	Succeeded int
	Failed    int
	Skipped   bool
}

const paymentTimeoutLockKey = "lock:payment-timeout-sweep"

// PaymentTimeoutJob fails gateway payments that were not confirmed before
// their expiry, which cancels the order and puts the stock back.
type PaymentTimeoutJob struct {
	payments  ExpiredPaymentFinder
	processor FailedPaymentProcessor
	locker    Locker
	lockTTL   time.Duration
	now       func() time.Time
}

func NewPaymentTimeoutJob(payments ExpiredPaymentFinder, processor FailedPaymentProcessor, locker Locker, lockTTL time.Duration) *PaymentTimeoutJob {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &PaymentTimeoutJob{
		payments:  payments,
		processor: processor,
		locker:    locker,
		lockTTL:   lockTTL,
		now:       time.Now,
	}
}

// Run processes every expired payment independently. One failing payment
// is logged and the rest of the batch still runs.
func (j *PaymentTimeoutJob) Run(ctx context.Context) SweepResult {
	var result SweepResult
	log := logger.With("job", "payment-timeout")

	token, ok, err := j.locker.TryLock(ctx, paymentTimeoutLockKey, j.lockTTL)
	if err != nil {
		log.Error("acquire sweep lock", "error", err)
		return SweepResult{Skipped: true}
	}
	if !ok {
		log.Debug("sweep already running elsewhere")
		return SweepResult{Skipped: true}
	}
	defer func() {
		if err := j.locker.Unlock(context.WithoutCancel(ctx), paymentTimeoutLockKey, token); err != nil {
			log.Warn("release sweep lock", "error", err)
		}
	}()

	expired, err := j.payments.FindExpiredPending(ctx, j.now())
	if err != nil {
		log.Error("query expired payments", "error", err)
		return result
	}
	result.Expired = len(expired)
	if result.Expired == 0 {
		return result
	}

	for _, p := range expired {
		if ctx.Err() != nil {
			break
		}
		if _, err := j.processor.ProcessFailedPayment(ctx, p.OrderID, ""); err != nil {
			result.Failed++
			log.Error("expire payment", "paymentId", p.ID, "orderId", p.OrderID, "error", err)
			continue
		}
		result.Succeeded++
		log.Info("payment expired", "paymentId", p.ID, "orderId", p.OrderID)
	}

	log.Info("sweep finished", "expired", result.Expired, "ok", result.Succeeded, "failed", result.Failed)
	return result
}
