package validate

import (
	"saletech/model"

	"github.com/gofiber/fiber/v2"
)

func AddCartItem() fiber.Handler {
	return body[model.AddCartItemInput]()
}

func UpdateCartItem() fiber.Handler {
	return body[model.UpdateCartItemInput]()
}

func SelectCartItem() fiber.Handler {
	return body[model.SelectCartItemInput]()
}
