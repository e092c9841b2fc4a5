package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
	"petcare/internal/services"
)

type RescueHandler struct {
	Rescue *services.RescueService
	Media  *Media
}

func (h *RescueHandler) Form(c *fiber.Ctx) error {
	return render(c, "rescue", fiber.Map{"AnimalTypes": domain.AnimalTypes, "Form": services.RescueInput{}})
}

// Submit is POST /rescue (multipart, with an "image" file).
func (h *RescueHandler) Submit(c *fiber.Ctx) error {
	in := services.RescueInput{
		Name:        c.FormValue("name"),
		Phone:       c.FormValue("phone_number"),
		Date:        c.FormValue("date"),
		Time:        c.FormValue("time"),
		AnimalType:  c.FormValue("animal_type"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
	}
	invalid := func(err error) error {
		ve, ok := domain.IsValidation(err)
		if !ok {
			return err
		}
		applog.Security(c, "rescue.submit.invalid", map[string]any{"field": ve.Field})
		return render(c.Status(fiber.StatusBadRequest), "rescue", fiber.Map{
			"AnimalTypes": domain.AnimalTypes, "Form": in, "Err": ve.Reason,
		})
	}

	// Check the text fields before touching the disk.
	if _, err := h.Rescue.Validate(in); err != nil {
		return invalid(err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return invalid(domain.Invalid("image", "attach a photo of the animal"))
	}
	if in.Image, err = h.Media.SaveImage(c, fh, "rescue_requests"); err != nil {
		return invalid(err)
	}

	rr, err := h.Rescue.Submit(c.UserContext(), currentUser(c), in)
	if err != nil {
		h.Media.Remove(in.Image)
		return invalid(err)
	}
	applog.Audit(c, "rescue.submit", map[string]any{"rescue_id": rr.ID})
	return render(c, "rescue_done", fiber.Map{"Rescue": rr})
}
