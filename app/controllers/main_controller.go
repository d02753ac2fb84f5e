package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleStatus answers the root liveness check.
func HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Success",
	})
}
