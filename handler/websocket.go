package handler

import (
	"context"

	"saletech/logger"
	"saletech/middleware"
	"saletech/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const localsWsOrder = "wsOrder"

// UpgradeOrderSocket checks ownership of the order before the connection
// is upgraded.
func (h *Handler) UpgradeOrderSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	order, err := h.Orders.GetOrder(c.UserContext(), middleware.UserId(c), pathId(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Locals(localsWsOrder, order)
	return c.Next()
}

// OrderStatusSocket sends the current status, then every status change of
// the order until the client goes away.
func (h *Handler) OrderStatusSocket(c *websocket.Conn) {
	order, ok := c.Locals(localsWsOrder).(model.Order)
	if !ok {
		_ = c.Close()
		return
	}
	defer c.Close()

	initial := model.OrderEvent{OrderID: order.ID, OrderStatus: order.Status}
	if order.Payment != nil {
		initial.PaymentStatus = order.Payment.Status
	}
	if err := c.WriteJSON(initial); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, unsubscribe := h.Broker.Subscribe(ctx, order.ID)
	defer unsubscribe()

	// the read loop only notices the client closing
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug("websocket write failed", "orderId", order.ID, "error", err)
				return
			}
		}
	}
}
