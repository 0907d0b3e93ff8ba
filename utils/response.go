package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParseUint safely parses a string to uint; malformed input yields zero.
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}

// SuccessResponse writes the standard success envelope. Message and data may
// each be omitted by passing the zero value.
func SuccessResponse(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// ListResponse writes a success envelope for collection results, including
// the element count.
func ListResponse(c *fiber.Ctx, data interface{}, count int) error {
	return c.JSON(fiber.Map{
		"success": true,
		"count":   count,
		"data":    data,
	})
}
