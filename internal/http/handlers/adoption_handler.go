package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
	"petcare/internal/services"
)

type AdoptionHandler struct {
	Catalog  *services.CatalogService
	Adoption *services.AdoptionService
}

// List is GET /adoptions.
func (h *AdoptionHandler) List(c *fiber.Ctx) error {
	animals, err := h.Catalog.ListAvailableAnimals(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "adoptions", fiber.Map{"Animals": animals})
}

func (h *AdoptionHandler) Form(c *fiber.Ctx) error {
	a, err := h.Adoption.Available(c.UserContext(), c.Params("id"))
	if err != nil {
		return reject(c, "adoption.form", err)
	}
	return render(c, "adopt", fiber.Map{"Animal": a})
}

func (h *AdoptionHandler) Submit(c *fiber.Ctx) error {
	id := c.Params("id")
	msg := c.FormValue("message")
	req, err := h.Adoption.Request(c.UserContext(), currentUser(c), id, msg)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			a, aerr := h.Adoption.Available(c.UserContext(), id)
			if aerr != nil {
				return reject(c, "adoption.request", aerr)
			}
			applog.Security(c, "adoption.request.invalid", map[string]any{"field": ve.Field})
			return render(c.Status(fiber.StatusBadRequest), "adopt", fiber.Map{"Animal": a, "Err": ve.Reason, "Message": msg})
		}
		return reject(c, "adoption.request", err)
	}
	applog.Audit(c, "adoption.request", map[string]any{"adoption_id": req.ID, "animal_id": req.AnimalID})
	return render(c, "adopt_done", fiber.Map{"Request": req})
}
