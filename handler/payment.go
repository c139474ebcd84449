package handler

import (
	"errors"
	"net/http"
	"net/url"

	"saletech/constants"
	"saletech/logger"
	"saletech/model"
	"saletech/service"
	"saletech/utils"
	"saletech/vnpay"

	"github.com/gofiber/fiber/v2"
)

func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		values.Add(string(k), string(v))
	})
	return values
}

// VNPayReturn is where the customer's browser lands after paying. It only
// reports the verified outcome; the IPN call is what updates the order.
func (h *Handler) VNPayReturn(c *fiber.Ctx) error {
	result, err := h.VNPay.VerifyCallback(queryValues(c))
	if errors.Is(err, vnpay.ErrInvalidChecksum) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid signature", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

func ipn(code, message string) model.IPNResponse {
	return model.IPNResponse{RspCode: code, Message: message}
}

// VNPayIPN is the server-to-server notification. VNPay expects HTTP 200
// with an RspCode in every case.
func (h *Handler) VNPayIPN(c *fiber.Ctx) error {
	result, err := h.VNPay.VerifyCallback(queryValues(c))
	switch {
	case errors.Is(err, vnpay.ErrInvalidChecksum):
		return c.JSON(ipn(constants.IPN_INVALID_CHECKSUM, "Invalid Checksum"))
	case errors.Is(err, vnpay.ErrInvalidAmount):
		return c.JSON(ipn(constants.IPN_INVALID_AMOUNT, "Invalid amount"))
	case err != nil:
		return c.JSON(ipn(constants.IPN_ORDER_NOT_FOUND, "Order not found"))
	}

	ctx := c.UserContext()
	if result.Success {
		_, err = h.Payments.ProcessSuccessfulPayment(ctx, result.OrderID, result.Amount, result.TransactionNo)
	} else {
		_, err = h.Payments.ProcessFailedPayment(ctx, result.OrderID, result.TransactionNo)
	}
	resp := ipnResponse(err)
	if resp.RspCode != constants.IPN_SUCCESS {
		logger.Warn("vnpay ipn not applied", "orderId", result.OrderID, "success", result.Success, "rspCode", resp.RspCode, "error", err)
	}
	return c.JSON(resp)
}

func ipnResponse(err error) model.IPNResponse {
	if err == nil {
		return ipn(constants.IPN_SUCCESS, "Confirm Success")
	}
	if errors.Is(err, service.ErrAmountMismatch) {
		return ipn(constants.IPN_INVALID_AMOUNT, "Invalid amount")
	}
	appErr, ok := service.AsAppError(err)
	if !ok {
		return ipn(constants.IPN_UNKNOWN_ERROR, "Unknown error")
	}
	switch {
	case appErr.Status == http.StatusNotFound:
		return ipn(constants.IPN_ORDER_NOT_FOUND, "Order not found")
	case appErr.Status == http.StatusConflict:
		return ipn(constants.IPN_ALREADY_CONFIRMED, "Order already confirmed")
	default:
		return ipn(constants.IPN_ORDER_NOT_FOUND, appErr.Message)
	}
}
