package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	"petcare/internal/services"
	"petcare/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check is GET /api/v1/availability?productId=.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or malformed productId",
		})
	}

	avail, err := h.Inv.CheckAvailability(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown product"})
		}
		return err
	}
	return c.JSON(avail)
}
