package handlers

import (
	applog "threadline/internal/log"
	"threadline/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates the back-office: the session must be bound to an
// allow-listed admin identity, otherwise redirect to login.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/admin/login")
		}
		a, err := auth.CurrentAdmin(sid)
		if err != nil || a == nil {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Redirect("/admin/login")
		}
		c.Locals("admin", a)
		return c.Next()
	}
}
