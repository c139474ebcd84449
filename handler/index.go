package handler

import (
	"context"
	"errors"
	"net/url"

	"saletech/constants"
	"saletech/logger"
	"saletech/model"
	"saletech/realtime"
	"saletech/service"
	"saletech/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderUsecase interface {
	PlaceOrder(ctx context.Context, userID uint, in model.PlaceOrderInput) (model.PlaceOrderResult, error)
	ListOrders(ctx context.Context, userID uint, status string) ([]model.Order, error)
	GetOrder(ctx context.Context, userID, orderID uint) (model.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uint, clientIP string) (model.CancelOrderResult, error)
}

type PaymentReconciler interface {
	ProcessSuccessfulPayment(ctx context.Context, orderID uint, amount int64, transactionID string) (model.Payment, error)
	ProcessFailedPayment(ctx context.Context, orderID uint, transactionID string) (model.Payment, error)
}

type CallbackVerifier interface {
	VerifyCallback(query url.Values) (model.CallbackResult, error)
}

type CartUsecase interface {
	GetCart(ctx context.Context, userID uint) (model.CartView, error)
	AddItem(ctx context.Context, userID uint, in model.AddCartItemInput) (model.CartView, error)
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (model.CartView, error)
	SetSelected(ctx context.Context, userID, productID uint, selected bool) (model.CartView, error)
	RemoveItem(ctx context.Context, userID, productID uint) (model.CartView, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, in model.RegisterInput) (model.User, error)
	Login(ctx context.Context, in model.LoginInput) (model.TokenData, error)
}

type Handler struct {
	Orders   OrderUsecase
	Payments PaymentReconciler
	VNPay    CallbackVerifier
	Carts    CartUsecase
	Auth     AuthUsecase
	Broker   realtime.Broker
}

// respondError writes client-facing errors and hands everything else to
// the app's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := service.AsAppError(err); ok {
		return utils.ErrorResponse(c, appErr.Status, appErr.Message, nil)
	}
	return err
}

// ErrorHandler turns unexpected errors into a generic 500 without details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.ErrorResponse(c, fe.Code, fe.Message, nil)
	}
	logger.ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func input[T any](c *fiber.Ctx) (T, bool) {
	in, ok := c.Locals(constants.LOCALS_INPUT).(T)
	return in, ok
}

func pathId(c *fiber.Ctx) uint {
	id, _ := c.Locals(constants.LOCALS_ID).(uint)
	return id
}
