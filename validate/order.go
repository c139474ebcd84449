package validate

import (
	"saletech/model"

	"github.com/gofiber/fiber/v2"
)

func PlaceOrder() fiber.Handler {
	return body[model.PlaceOrderInput]()
}
