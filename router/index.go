package router

import (
	"time"

	"saletech/handler"
	"saletech/middleware"
	"saletech/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const (
	placeOrderLimit = 10
	ipnLimit        = 120
	limitWindow     = time.Minute
)

func SetupRoutes(app *fiber.App, h *handler.Handler, jwtSecret string) {
	protected := middleware.Protected(jwtSecret)

	app.Get("/healthz", handler.Health)

	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", validate.Register(), h.Register)
	auth.Post("/login", validate.Login(), h.Login)

	cart := v1.Group("/cart", protected)
	cart.Get("/", h.GetCart)
	cart.Post("/", validate.AddCartItem(), h.AddCartItem)
	cart.Patch("/:productId", validate.GetById("productId"), validate.UpdateCartItem(), h.UpdateCartItem)
	cart.Patch("/:productId/select", validate.GetById("productId"), validate.SelectCartItem(), h.SelectCartItem)
	cart.Delete("/:productId", validate.GetById("productId"), h.RemoveCartItem)

	order := v1.Group("/orders", protected)
	order.Get("/", h.GetOrders)
	order.Post("/", middleware.RateLimit(placeOrderLimit, limitWindow), validate.PlaceOrder(), h.PlaceOrder)
	order.Get("/:orderId", validate.GetById("orderId"), h.GetOrderById)
	order.Patch("/:orderId/cancel", validate.GetById("orderId"), h.CancelOrder)
	order.Get("/:orderId/payment-qr", validate.GetById("orderId"), h.GetPaymentQR)

	payment := v1.Group("/payment")
	payment.Get("/vnpay/return", h.VNPayReturn)
	payment.Get("/vnpay/ipn", middleware.RateLimit(ipnLimit, limitWindow), h.VNPayIPN)

	ws := app.Group("/ws")
	ws.Get("/orders/:orderId", protected, validate.GetById("orderId"), h.UpgradeOrderSocket, websocket.New(h.OrderStatusSocket))
}
