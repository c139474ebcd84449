package handler

import (
	"saletech/constants"
	"saletech/middleware"
	"saletech/model"
	"saletech/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetCart(c *fiber.Ctx) error {
	view, err := h.Carts.GetCart(c.UserContext(), middleware.UserId(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) AddCartItem(c *fiber.Ctx) error {
	in, ok := input[model.AddCartItemInput](c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	view, err := h.Carts.AddItem(c.UserContext(), middleware.UserId(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) UpdateCartItem(c *fiber.Ctx) error {
	in, ok := input[model.UpdateCartItemInput](c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	view, err := h.Carts.UpdateQuantity(c.UserContext(), middleware.UserId(c), pathId(c), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) SelectCartItem(c *fiber.Ctx) error {
	in, ok := input[model.SelectCartItemInput](c)
	if !ok || in.Selected == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	view, err := h.Carts.SetSelected(c.UserContext(), middleware.UserId(c), pathId(c), *in.Selected)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) RemoveCartItem(c *fiber.Ctx) error {
	view, err := h.Carts.RemoveItem(c.UserContext(), middleware.UserId(c), pathId(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}
