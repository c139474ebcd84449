package handler

import (
	"saletech/constants"
	"saletech/middleware"
	"saletech/model"
	"saletech/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	in, ok := input[model.PlaceOrderInput](c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	in.ClientIP = c.IP()

	result, err := h.Orders.PlaceOrder(c.UserContext(), middleware.UserId(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, result)
}

func (h *Handler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.ListOrders(c.UserContext(), middleware.UserId(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, orders)
}

func (h *Handler) GetOrderById(c *fiber.Ctx) error {
	order, err := h.Orders.GetOrder(c.UserContext(), middleware.UserId(c), pathId(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	result, err := h.Orders.CancelOrder(c.UserContext(), middleware.UserId(c), pathId(c), c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// GetPaymentQR renders the pending gateway payment link as a PNG.
func (h *Handler) GetPaymentQR(c *fiber.Ctx) error {
	order, err := h.Orders.GetOrder(c.UserContext(), middleware.UserId(c), pathId(c))
	if err != nil {
		return respondError(c, err)
	}
	p := order.Payment
	if p == nil || p.Provider != model.PaymentVNPay || p.Status != model.PaymentPending || p.PaymentURL == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.PAYMENT_NOT_AVAILABLE_QR, nil)
	}
	png, err := utils.GenerateQRCode(*p.PaymentURL, 300)
	if err != nil {
		return err
	}
	c.Type("png")
	return c.Send(png)
}
