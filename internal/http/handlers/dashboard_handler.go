package handlers

import "github.com/gofiber/fiber/v2"

type DashboardHandler struct{}

// Dashboard shows role-specific quick actions; RequireUser guarantees a user.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "dashboard", fiber.Map{})
}
