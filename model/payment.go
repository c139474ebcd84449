package model

import "time"

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentVNPay PaymentMethod = "VNPAY"
)

type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "PENDING"
	PaymentPaid         PaymentStatus = "PAID"
	PaymentFailed       PaymentStatus = "FAILED"
	PaymentRefund       PaymentStatus = "REFUND"
	PaymentRefundFailed PaymentStatus = "REFUND_FAILED"
)

type Payment struct {
	DTO
	OrderID       uint          `gorm:"not null;uniqueIndex" json:"orderId"`
	Provider      PaymentMethod `gorm:"size:20;not null" json:"provider"`
	Status        PaymentStatus `gorm:"size:20;not null;index:idx_payment_status_expiry" json:"status"`
	Amount        int64         `gorm:"not null" json:"amount"`
	TxnRef        *string       `gorm:"size:64;uniqueIndex" json:"txnRef,omitempty"`
	TransactionID *string       `gorm:"size:64" json:"transactionId,omitempty"`
	PaymentURL    *string       `gorm:"type:text" json:"-"`
	ExpiresAt     *time.Time    `gorm:"index:idx_payment_status_expiry" json:"expiresAt,omitempty"`
}

// PaymentParams carries the caller-supplied data a processor may need.
type PaymentParams struct {
	TxnRef     string
	PaymentURL string
}
