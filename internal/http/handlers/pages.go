package handlers

import "github.com/gofiber/fiber/v2"

func Home(c *fiber.Ctx) error  { return render(c, "home", nil) }
func About(c *fiber.Ctx) error { return render(c, "about", nil) }

func NotFound(c *fiber.Ctx) error {
	return message(c, fiber.StatusNotFound, "Page not found")
}
