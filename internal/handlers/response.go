package handlers

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorResponse writes the {error, code} body used by every endpoint.
func errorResponse(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// validationMessages flattens validator errors into field -> message.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		messages["body"] = err.Error()
		return messages
	}
	for _, e := range validationErrors {
		messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return messages
}

// positiveParam parses a path parameter as an integer greater than zero.
func positiveParam(c *fiber.Ctx, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
