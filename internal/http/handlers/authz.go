package handlers

import (
	"supplyhub/internal/domain"
	applog "supplyhub/internal/log"
	"supplyhub/internal/policy"
	"supplyhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireRole gates a route to one role. Anonymous visitors go to the login
// page; authenticated users with the wrong role bounce to their dashboard.
// Evaluated on every request since session state can change between them.
func RequireRole(auth *services.AuthService, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		if u.Role != role {
			applog.Security(c, "access.denied.role", map[string]any{"need": role, "have": u.Role})
			return c.Redirect("/dashboard")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// principalFrom resolves the acting principal from the request context.
// Anonymous requests yield a zero principal; the policy layer rejects those.
func principalFrom(c *fiber.Ctx) policy.Principal {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return policy.Principal{UserID: u.ID, Role: u.Role}
	}
	return policy.Principal{}
}
