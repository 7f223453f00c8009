package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports process liveness for load balancers and uptime probes.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
