package vnpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"saletech/config"
	"saletech/constants"
	"saletech/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	version    = "2.1.0"
	dateLayout = "20060102150405"

	transactionFullRefund    = "02"
	transactionPartialRefund = "03"
)

var (
	ErrInvalidChecksum = errors.New("vnpay: invalid checksum")
	ErrInvalidOrderRef = errors.New("vnpay: cannot read order id from order info")
	ErrInvalidAmount   = errors.New("vnpay: invalid amount")
)

// VNPay timestamps are always GMT+7.
var vnLocation = time.FixedZone("GMT+7", 7*60*60)

type Client struct {
	cfg         config.VNPayConfig
	now         func() time.Time
	httpTimeout time.Duration
}

func New(cfg config.VNPayConfig) *Client {
	return &Client{cfg: cfg, now: time.Now, httpTimeout: 30 * time.Second}
}

func OrderInfo(orderID uint) string {
	return constants.ORDER_INFO_PREFIX + strconv.FormatUint(uint64(orderID), 10)
}

// ParseOrderID extracts the order id that follows the last '#'.
func ParseOrderID(orderInfo string) (uint, error) {
	idx := strings.LastIndex(orderInfo, "#")
	if idx < 0 || idx == len(orderInfo)-1 {
		return 0, ErrInvalidOrderRef
	}
	id, err := strconv.ParseUint(strings.TrimSpace(orderInfo[idx+1:]), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidOrderRef
	}
	return uint(id), nil
}

func (c *Client) BuildPaymentURL(req model.PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", errors.New("vnpay: txn ref is required")
	}
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	created := req.CreatedAt
	if created.IsZero() {
		created = c.now()
	}
	created = created.In(vnLocation)

	params := url.Values{}
	params.Set("vnp_Version", version)
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", c.cfg.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", req.TxnRef)
	params.Set("vnp_OrderInfo", OrderInfo(req.OrderID))
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", c.cfg.ReturnURL)
	params.Set("vnp_IpAddr", req.IPAddr)
	params.Set("vnp_CreateDate", created.Format(dateLayout))
	params.Set("vnp_ExpireDate", created.Add(c.cfg.Timeout).Format(dateLayout))

	// Encode sorts by key, which is the order the checksum expects.
	query := params.Encode()
	return c.cfg.PayURL + "?" + query + "&vnp_SecureHash=" + c.sign(query), nil
}

// VerifyCallback checks the signature of a return or IPN request and reads
// the transaction outcome from it.
func (c *Client) VerifyCallback(query url.Values) (model.CallbackResult, error) {
	received := query.Get("vnp_SecureHash")
	fields := url.Values{}
	for k, v := range query {
		if !strings.HasPrefix(k, "vnp_") || k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		if len(v) > 0 && v[0] != "" {
			fields.Set(k, v[0])
		}
	}
	expected := c.sign(fields.Encode())
	if received == "" || !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return model.CallbackResult{}, ErrInvalidChecksum
	}

	result := model.CallbackResult{
		TxnRef:            fields.Get("vnp_TxnRef"),
		TransactionNo:     fields.Get("vnp_TransactionNo"),
		ResponseCode:      fields.Get("vnp_ResponseCode"),
		TransactionStatus: fields.Get("vnp_TransactionStatus"),
	}
	result.Success = result.ResponseCode == "00" && result.TransactionStatus == "00"

	orderID, err := ParseOrderID(fields.Get("vnp_OrderInfo"))
	if err != nil {
		return result, err
	}
	result.OrderID = orderID

	raw, err := strconv.ParseInt(fields.Get("vnp_Amount"), 10, 64)
	if err != nil || raw < 0 || raw%100 != 0 {
		return result, ErrInvalidAmount
	}
	result.Amount = raw / 100
	return result, nil
}

type refundBody struct {
	RequestID       string `json:"vnp_RequestId"`
	Version         string `json:"vnp_Version"`
	Command         string `json:"vnp_Command"`
	TmnCode         string `json:"vnp_TmnCode"`
	TransactionType string `json:"vnp_TransactionType"`
	TxnRef          string `json:"vnp_TxnRef"`
	Amount          string `json:"vnp_Amount"`
	OrderInfo       string `json:"vnp_OrderInfo"`
	TransactionNo   string `json:"vnp_TransactionNo,omitempty"`
	TransactionDate string `json:"vnp_TransactionDate"`
	CreateBy        string `json:"vnp_CreateBy"`
	CreateDate      string `json:"vnp_CreateDate"`
	IPAddr          string `json:"vnp_IpAddr"`
	SecureHash      string `json:"vnp_SecureHash"`
}

// Refund calls the merchant API. Any failure is reported with response code 99.
func (c *Client) Refund(ctx context.Context, req model.RefundRequest) (model.RefundResult, error) {
	failed := func(err error) (model.RefundResult, error) {
		return model.RefundResult{ResponseCode: "99", Message: "Error: " + err.Error()}, err
	}
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	body := refundBody{
		RequestID:       strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Version:         version,
		Command:         "refund",
		TmnCode:         c.cfg.TmnCode,
		TransactionType: transactionFullRefund,
		TxnRef:          req.TxnRef,
		Amount:          strconv.FormatInt(req.Amount*100, 10),
		OrderInfo:       req.OrderInfo,
		TransactionNo:   req.TransactionNo,
		TransactionDate: req.TransactionDate.In(vnLocation).Format(dateLayout),
		CreateBy:        req.CreateBy,
		CreateDate:      c.now().In(vnLocation).Format(dateLayout),
		IPAddr:          req.IPAddr,
	}
	if req.Partial {
		body.TransactionType = transactionPartialRefund
	}
	if body.OrderInfo == "" {
		body.OrderInfo = "Hoan tien GD OrderId:" + req.TxnRef
	}
	if body.IPAddr == "" {
		body.IPAddr = "127.0.0.1"
	}
	body.SecureHash = c.sign(strings.Join([]string{
		body.RequestID, body.Version, body.Command, body.TmnCode,
		body.TransactionType, body.TxnRef, body.Amount, body.TransactionNo,
		body.TransactionDate, body.CreateBy, body.CreateDate, body.IPAddr, body.OrderInfo,
	}, "|"))

	agent := fiber.Post(c.cfg.APIURL)
	agent.JSON(body)
	agent.Timeout(c.httpTimeout)
	status, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return failed(errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return failed(fmt.Errorf("vnpay: refund api returned http %d", status))
	}

	var result model.RefundResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return failed(fmt.Errorf("vnpay: decode refund response: %w", err))
	}
	return result, nil
}

func (c *Client) sign(data string) string {
	h := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
