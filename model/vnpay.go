package model

import "time"

type PaymentRequest struct {
	OrderID   uint
	Amount    int64
	TxnRef    string
	IPAddr    string
	CreatedAt time.Time
}

type CallbackResult struct {
	OrderID           uint   `json:"orderId"`
	TxnRef            string `json:"txnRef"`
	Amount            int64  `json:"amount"`
	TransactionNo     string `json:"transactionNo"`
	ResponseCode      string `json:"responseCode"`
	TransactionStatus string `json:"transactionStatus"`
	Success           bool   `json:"success"`
}

type RefundRequest struct {
	TxnRef          string
	Amount          int64
	OrderInfo       string
	TransactionNo   string
	TransactionDate time.Time
	CreateBy        string
	IPAddr          string
	Partial         bool
}

type RefundResult struct {
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
}

func (r RefundResult) Success() bool { return r.ResponseCode == "00" }

type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}
