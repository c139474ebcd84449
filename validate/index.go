package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"saletech/constants"
	"saletech/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var phoneRegex = regexp.MustCompile(`^(\+84|84|0)(3[2-9]|5[689]|7[06-9]|8[1-9]|9[0-9])\d{7}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates any input with the shared validator.
func Struct(input any) error {
	return validate.Struct(input)
}

func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := strconv.ParseUint(c.Params(key), 10, 64)
		if err != nil || value == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}
		c.Locals(constants.LOCALS_ID, uint(value))
		return c.Next()
	}
}

// body parses the request body into T, validates it and stores it in locals.
func body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, fmt.Errorf("invalid body: %w", err))
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		c.Locals(constants.LOCALS_INPUT, input)
		return c.Next()
	}
}
