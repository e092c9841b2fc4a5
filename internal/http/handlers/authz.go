package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
	"petcare/internal/services"
)

// AttachUser loads the session user, if any, into the request locals.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				setUser(c, u)
			}
		}
		return c.Next()
	}
}

func setUser(c *fiber.Ctx, u *domain.User) {
	c.Locals("user", u)
	c.Locals(applog.LocalsUserID, u.ID)
}

func loginRedirect(c *fiber.Ctx) error {
	return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return loginRedirect(c)
		}
		u, err := auth.CurrentUser(c.UserContext(), sid)
		if err != nil || u == nil {
			return loginRedirect(c)
		}
		setUser(c, u)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return loginRedirect(c)
		}
		u, err := auth.CurrentUser(c.UserContext(), sid)
		if err != nil || !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return message(c, fiber.StatusForbidden, "Access denied")
		}
		setUser(c, u)
		return c.Next()
	}
}
