package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petcare/internal/services"
)

type AccountHandler struct {
	Account *services.AccountService
}

// Overview is GET /account.
func (h *AccountHandler) Overview(c *fiber.Ctx) error {
	u := currentUser(c)
	ov, err := h.Account.Overview(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return render(c, "account", fiber.Map{"Overview": ov, "Booked": c.Query("booked") != ""})
}
