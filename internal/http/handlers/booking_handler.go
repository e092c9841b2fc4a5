package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
	"petcare/internal/services"
)

type BookingHandler struct {
	Catalog *services.CatalogService
	Booking *services.BookingService
}

// Services is GET /services.
func (h *BookingHandler) Services(c *fiber.Ctx) error {
	plans, err := h.Catalog.ListPlans(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "services", fiber.Map{"Plans": plans})
}

func (h *BookingHandler) Form(c *fiber.Ctx) error {
	plan, err := h.Booking.Plan(c.UserContext(), c.Params("id"))
	if err != nil {
		return reject(c, "booking.form", err)
	}
	return render(c, "book", fiber.Map{"Plan": plan, "AnimalTypes": domain.AnimalTypes, "Form": services.BookingInput{}})
}

func (h *BookingHandler) Submit(c *fiber.Ctx) error {
	id := c.Params("id")
	in := services.BookingInput{
		PetName:     c.FormValue("pet_name"),
		AnimalType:  c.FormValue("animal_type"),
		BookingDate: c.FormValue("booking_date"),
	}
	b, err := h.Booking.Book(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			plan, perr := h.Booking.Plan(c.UserContext(), id)
			if perr != nil {
				return reject(c, "booking.create", perr)
			}
			applog.Security(c, "booking.create.invalid", map[string]any{"field": ve.Field})
			return render(c.Status(fiber.StatusBadRequest), "book", fiber.Map{
				"Plan": plan, "AnimalTypes": domain.AnimalTypes, "Form": in, "Err": ve.Reason,
			})
		}
		return reject(c, "booking.create", err)
	}
	applog.Audit(c, "booking.create", map[string]any{"booking_id": b.ID, "plan_id": b.PlanID})
	return c.Redirect("/account?booked=" + b.ID)
}
